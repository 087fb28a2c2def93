package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/studydeck/internal/server/config"
	"github.com/dmitrijs2005/studydeck/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var loadAWSConfig = config.LoadDefaultConfig

// Presigner signs object uploads. *s3.PresignClient implements it.
type Presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// SourceService hands out presigned upload URLs for the documents a deck was
// generated from and records the object key on the deck.
type SourceService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	cfg   *sc.Config

	presigner func(ctx context.Context) (Presigner, error)
}

func NewSourceService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *SourceService {
	s := &SourceService{db: db, repos: m, cfg: cfg}
	s.presigner = s.s3Presigner
	return s
}

// SourceKey builds a fresh object key for a deck's source document. Only the
// base name of fileName is kept, whichever separator the client used.
func SourceKey(userID, deckID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	switch base {
	case ".", "/":
		base = "source"
	}
	return path.Join("sources", userID, deckID, uuid.NewString()+"-"+base)
}

func (s *SourceService) s3Presigner(ctx context.Context) (Presigner, error) {
	creds := credentials.NewStaticCredentialsProvider(s.cfg.S3RootUser, s.cfg.S3RootPassword, "")
	awsCfg, err := loadAWSConfig(ctx, config.WithRegion(s.cfg.S3Region), config.WithCredentialsProvider(creds))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	return s3.NewPresignClient(s3.NewFromConfig(awsCfg, s.endpoint)), nil
}

// endpoint points the client at the configured S3-compatible server.
func (s *SourceService) endpoint(o *s3.Options) {
	o.BaseEndpoint = aws.String(s.cfg.S3BaseEndpoint)
	o.UsePathStyle = true
}

// CreateUpload checks that deckID belongs to userID, presigns a PUT for a new
// object and stores its key on the deck. It returns the key and the URL.
func (s *SourceService) CreateUpload(ctx context.Context, userID, deckID, fileName, contentType string) (string, string, error) {
	decks := s.repos.Decks(s.db)
	if _, err := decks.Get(ctx, deckID, userID); err != nil {
		return "", "", err
	}

	p, err := s.presigner(ctx)
	if err != nil {
		return "", "", err
	}

	key := SourceKey(userID, deckID, fileName)
	in := &s3.PutObjectInput{Bucket: aws.String(s.cfg.S3Bucket), Key: aws.String(key)}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	signed, err := p.PresignPutObject(ctx, in, s3.WithPresignExpires(s.cfg.SourceURLExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}

	if err := decks.SetSourceKey(ctx, deckID, userID, key); err != nil {
		return "", "", err
	}
	return key, signed.URL, nil
}
