package storage

import (
	"errors"
	"fmt"

	aws3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/casdoor/oss"
	"github.com/casdoor/oss/s3"
	"github.com/yeremiapane/projectflow/config"
)

// New builds the object store selected by storage.provider.
func New(c config.StorageConfig) (oss.StorageInterface, error) {
	switch c.Provider {
	case "filesystem", "":
		return NewFileSystem(c.Bucket)
	case "s3":
		return newS3(c, false)
	case "minio":
		if c.Endpoint == "" {
			return nil, errors.New("endpoint is required for minio")
		}
		return newS3(c, true)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", c.Provider)
	}
}

func newS3(c config.StorageConfig, pathStyle bool) (oss.StorageInterface, error) {
	if c.ID == "" || c.Secret == "" {
		return nil, errors.New("access id and secret are required for s3 storage")
	}
	if c.Bucket == "" {
		return nil, errors.New("bucket is required for s3 storage")
	}
	region := c.Region
	if region == "" {
		region = "us-east-1"
	}
	return s3.New(&s3.Config{
		AccessID:         c.ID,
		AccessKey:        c.Secret,
		Region:           region,
		Bucket:           c.Bucket,
		Endpoint:         c.Endpoint,
		S3Endpoint:       c.Endpoint,
		ACL:              aws3.BucketCannedACLPublicRead,
		S3ForcePathStyle: pathStyle,
	}), nil
}
