package storage

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"transcript-player/internal/config"
)

type S3Provider struct {
	api *s3.S3
}

// NewS3Provider builds a client for S3 compatible stores (AWS, B2, MinIO).
func NewS3Provider(cfg *config.Config) (*S3Provider, error) {
	s3Config := &aws.Config{
		Region:           aws.String(cfg.Storage.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Storage.KeyID != "" {
		s3Config.Credentials = credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, "")
	}
	if cfg.Storage.Endpoint != "" {
		s3Config.Endpoint = aws.String(cfg.Storage.Endpoint)
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}
	return &S3Provider{api: s3.New(sess)}, nil
}

func (s *S3Provider) Get(ctx context.Context, loc Location) (*FileObject, error) {
	out, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Path),
	})
	if err != nil {
		return nil, err
	}
	return &FileObject{
		Body:          out.Body,
		ContentType:   aws.StringValue(out.ContentType),
		ContentLength: aws.Int64Value(out.ContentLength),
		LastModified:  aws.TimeValue(out.LastModified),
	}, nil
}
