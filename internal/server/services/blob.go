package services

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/ele/internal/common"
	sc "github.com/dmitrijs2005/ele/internal/server/config"
)

const uploadURLValidityDuration = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// BlobService hands out presigned S3 URLs for objects under the caller's
// profile image prefix.
type BlobService struct {
	config *sc.Config
}

func NewBlobService(config *sc.Config) *BlobService {
	return &BlobService{config: config}
}

// checkPath allows profile_images/<uid> and anything below it.
func checkPath(userID, path string) error {
	if path == "" || strings.Contains(path, "..") {
		return common.ErrorValidation
	}
	own := common.ProfileImagesPrefix + userID
	if path != own && !strings.HasPrefix(path, own+"/") && !strings.HasPrefix(path, own+".") {
		return common.ErrorForbidden
	}
	return nil
}

func (s *BlobService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// GetUploadURL presigns a PUT of path. An empty contentType leaves the
// header unsigned.
func (s *BlobService) GetUploadURL(ctx context.Context, userID, path, contentType string) (string, error) {
	if err := checkPath(userID, path); err != nil {
		return "", err
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(path),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(pc, ctx, in, s3.WithPresignExpires(uploadURLValidityDuration))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// GetDownloadURL presigns a GET of path valid for the configured lifetime.
func (s *BlobService) GetDownloadURL(ctx context.Context, userID, path string) (string, error) {
	if err := checkPath(userID, path); err != nil {
		return "", err
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(s.config.DownloadURLValidityDuration))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
