package media

import (
	"context"
	"fmt"
	"os"
)

type FactoryResult struct {
	Driver string
	Store  ImageStore
}

// FromEnv picks the image store driver from MEDIA_DRIVER (local|s3).
func FromEnv(ctx context.Context) (FactoryResult, error) {
	driver := os.Getenv("MEDIA_DRIVER")
	if driver == "" {
		driver = "local"
	}

	switch driver {
	case "local":
		baseDir := envOr("MEDIA_LOCAL_DIR", "./storage/menu-images")
		urlPrefix := envOr("MEDIA_LOCAL_URL_PREFIX", "/menu-images")
		return FactoryResult{Driver: "local", Store: NewLocal(baseDir, urlPrefix)}, nil

	case "s3":
		region := envOr("S3_REGION", "")
		bucket := envOr("S3_BUCKET", "")
		publicBase := envOr("S3_PUBLIC_BASE_URL", "")
		prefix := envOr("S3_PREFIX", "menu-images")
		if region == "" || bucket == "" || publicBase == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		s, err := NewS3(ctx, S3Config{
			Region:        region,
			Bucket:        bucket,
			Prefix:        prefix,
			PublicBaseURL: publicBase,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Store: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown MEDIA_DRIVER: %s", driver)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
