package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/fictionhub-backend/config"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
)

const (
	CoverFolder   = "covers"
	presignExpiry = 15 * time.Minute
)

var ErrUnsupportedContentType = errors.New("unsupported content type")

// CoverContentTypes 표지 이미지로 허용하는 MIME 타입
var CoverContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

type S3Storage struct {
	presigner *s3.PresignClient
	bucket    string
	region    string
	baseURL   string
}

// PresignedUpload 클라이언트가 직접 PUT 업로드할 주소
type PresignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	FileURL   string    `json:"fileUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewS3Storage(cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config

	// 키가 있으면 정적 자격증명, 없으면 기본 체인 (환경변수, ~/.aws, IAM role)
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = aws.Config{Region: cfg.Region}
		}
		awsCfg = loaded
	}

	return &S3Storage{
		presigner: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// PresignCoverUpload issues a presigned PUT for a book cover image.
func (s *S3Storage) PresignCoverUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	if err := ValidateContentType(contentType, CoverContentTypes); err != nil {
		return nil, err
	}
	return s.presign(ctx, CoverFolder, filename, contentType)
}

func (s *S3Storage) presign(ctx context.Context, folder, filename, contentType string) (*PresignedUpload, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

// fileURL CDN 주소가 있으면 우선 사용
func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ValidateContentType accepts a MIME type (parameters ignored) from the allowed list.
func ValidateContentType(contentType string, allowed []string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	for _, a := range allowed {
		if mediaType == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
}
