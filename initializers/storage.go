package initializers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

// StorageConfig holds the MinIO connection and the upload policy.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	MaxSize   int64
	FileTypes []string
	Expiry    time.Duration
}

var (
	MinioClient *minio.Client
	Storage     StorageConfig
)

// uploadsPolicyYAML optionally overrides env-derived upload settings. The file
// location comes from UPLOADS_CONFIG_FILE, default config/uploads.yaml.
type uploadsPolicyYAML struct {
	MaxFileSize        int64    `yaml:"max_file_size"`
	AllowedFileTypes   []string `yaml:"allowed_file_types"`
	PresignedURLExpiry int      `yaml:"presigned_url_expiry"` // seconds
}

func loadUploadsPolicy() (*uploadsPolicyYAML, error) {
	path := os.Getenv("UPLOADS_CONFIG_FILE")
	if strings.TrimSpace(path) == "" {
		path = "config/uploads.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg uploadsPolicyYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// InitStorage connects to MinIO and ensures the bucket exists.
func InitStorage() error {
	Storage = StorageConfig{
		Endpoint:  os.Getenv("MINIO_ENDPOINT"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    os.Getenv("MINIO_BUCKET"),
		UseSSL:    strings.EqualFold(os.Getenv("MINIO_USE_SSL"), "true"),
		MaxSize:   parseInt64(os.Getenv("MAX_FILE_SIZE"), 10485760),
		FileTypes: parseFileTypes(os.Getenv("ALLOWED_FILE_TYPES")),
		Expiry:    parseExpiry(os.Getenv("PRESIGNED_URL_EXPIRY")),
	}

	if policy, err := loadUploadsPolicy(); err == nil && policy != nil {
		if policy.MaxFileSize > 0 {
			Storage.MaxSize = policy.MaxFileSize
		}
		if len(policy.AllowedFileTypes) > 0 {
			Storage.FileTypes = policy.AllowedFileTypes
		}
		if policy.PresignedURLExpiry > 0 {
			Storage.Expiry = time.Duration(policy.PresignedURLExpiry) * time.Second
		}
	}

	client, err := minio.New(Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(Storage.AccessKey, Storage.SecretKey, ""),
		Secure: Storage.UseSSL,
	})
	if err != nil {
		return err
	}
	MinioClient = client

	exists, err := client.BucketExists(context.Background(), Storage.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// CheckFileAllowed validates an upload against the server-side policy.
func CheckFileAllowed(size int64, contentType string) error {
	if size > Storage.MaxSize {
		return fmt.Errorf("file size %d exceeds the limit of %d bytes", size, Storage.MaxSize)
	}
	for _, t := range Storage.FileTypes {
		if strings.EqualFold(t, contentType) {
			return nil
		}
	}
	return fmt.Errorf("file type %s is not allowed", contentType)
}

// PresignedObjectURL builds a time-limited download URL for a stored object.
func PresignedObjectURL(objectKey, fileName string) (string, error) {
	params := make(url.Values)
	params.Set("response-content-disposition", fmt.Sprintf("inline; filename=%q", fileName))
	u, err := MinioClient.PresignedGetObject(context.Background(), Storage.Bucket, objectKey, Storage.Expiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func parseInt64(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseFileTypes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"image/jpeg", "image/png", "image/webp"}
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseExpiry(raw string) time.Duration {
	if raw == "" {
		return time.Hour
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return time.Hour
	}
	return time.Duration(secs) * time.Second
}
