package images

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Provider keeps images as objects in a bucket, below an optional prefix.
type S3Provider struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Provider(client *s3.Client, bucket, prefix string) *S3Provider {
	return &S3Provider{
		client: client,
		bucket: bucket,
		prefix: strings.TrimSuffix(prefix, "/"),
	}
}

func (p *S3Provider) objectKey(key string) string {
	if p.prefix == "" {
		return key
	}
	return p.prefix + "/" + key
}

func (p *S3Provider) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.objectKey(key)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

func (p *S3Provider) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.objectKey(key)),
	})
	if isNotFound(err) {
		return nil, "", ErrNotExist
	} else if err != nil {
		return nil, "", err
	}
	return obj.Body, aws.ToString(obj.ContentType), nil
}

func (p *S3Provider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.objectKey(key)),
	})
	if isNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (p *S3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.objectKey(key)),
	})
	return err
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
