// Package flagx lets several configuration layers share os.Args. Each layer
// picks out the flags it owns and parses only those, so unknown flags never
// make a FlagSet fail. It also reads prefixed environment variables.
package flagx

import (
	"flag"
	"io"
	"strconv"
	"strings"
	"time"
)

// FilterArgs keeps the allowed flags of args together with their values.
// Names in allowed may be given with or without dashes; "-c", "--c" and "c"
// are the same flag. A value is taken either after '=' or from the next
// argument when that one does not start with a dash. The result is never
// nil.
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		names[flagName(f)] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, inline := strings.Cut(arg, "=")
		if !names[flagName(name)] {
			continue
		}
		out = append(out, arg)
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

func flagName(s string) string {
	return strings.TrimLeft(s, "-")
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or "" when there is none. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}

// Parse parses the flags fs defines out of args, skipping every other
// argument.
func Parse(fs *flag.FlagSet, args []string) error {
	var names []string
	fs.VisitAll(func(f *flag.Flag) { names = append(names, f.Name) })
	return fs.Parse(FilterArgs(args, names))
}

// unitDuration is a duration flag written as a whole number of units.
type unitDuration struct {
	dst  *time.Duration
	unit time.Duration
}

func (u unitDuration) String() string {
	if u.dst == nil || u.unit == 0 {
		return "0"
	}
	return strconv.FormatInt(int64(*u.dst/u.unit), 10)
}

func (u unitDuration) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*u.dst = time.Duration(n) * u.unit
	return nil
}

// DurationVar defines a flag that counts units, so "-t 5" with unit
// time.Minute stores five minutes in dst. dst is left alone unless the flag
// is given.
func DurationVar(fs *flag.FlagSet, dst *time.Duration, name string, unit time.Duration, usage string) {
	fs.Var(unitDuration{dst: dst, unit: unit}, name, usage)
}
