package flagx

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// defaultDotenvFile is loaded when present and no -env flag is given.
const defaultDotenvFile = ".env"

// DotenvFlags extracts the dotenv file path given via -env. It returns an
// empty string when the flag is absent.
func DotenvFlags() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-env"})

	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	fs.StringVar(&path, "env", "", "Path to dotenv file")
	_ = fs.Parse(args)

	return path
}

// LoadDotenv loads variables from path into the process environment.
// Variables that are already set win over the file. With an empty path the
// default ".env" is loaded if it exists; a missing default file is not an
// error, a missing explicit file is.
func LoadDotenv(path string) error {
	if path == "" {
		if _, err := os.Stat(defaultDotenvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = defaultDotenvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Env reads prefixed environment variables into config fields. Unset or
// empty variables leave the destination unchanged.
type Env struct {
	prefix string
}

func NewEnv(prefix string) Env {
	return Env{prefix: prefix}
}

func (e Env) lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(e.prefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e Env) String(name string, dst *string) {
	if v, ok := e.lookup(name); ok {
		*dst = v
	}
}

func (e Env) Int(name string, dst *int) error {
	v, ok := e.lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", e.prefix, name, err)
	}
	*dst = n
	return nil
}

func (e Env) Duration(name string, dst *time.Duration) error {
	v, ok := e.lookup(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", e.prefix, name, err)
	}
	*dst = d
	return nil
}
