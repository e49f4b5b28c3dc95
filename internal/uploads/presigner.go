// Package uploads issues presigned S3 PUT URLs for project images. The
// API never proxies image bytes; clients upload directly and store the
// resulting public URL on the project document.
package uploads

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

type Presigner struct {
	client *s3.PresignClient
	bucket string
}

func NewPresigner(ctx context.Context, region, bucket string) (*Presigner, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Presigner{
		client: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket: bucket,
	}, nil
}

// PresignImagePut returns an upload URL and the object key for a project
// image. The key is namespaced per user so uploads cannot collide.
func (p *Presigner) PresignImagePut(ctx context.Context, uid, filename, contentType string) (string, string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("unsupported content type %q", contentType)
	}

	key := fmt.Sprintf("projects/%s/%s%s", uid, uuid.New().String(), path.Ext(filename))

	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", "", fmt.Errorf("presign put for %s: %w", key, err)
	}

	return req.URL, key, nil
}
