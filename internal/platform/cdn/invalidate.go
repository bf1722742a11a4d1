// Package cdn adapts the CloudFront API to the deploy.CDN contract.
package cdn

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
)

// invalidateAll is the path pattern clearing the whole cache after an
// asset publish.
const invalidateAll = "/*"

// api is the subset of the CloudFront client the adapter needs.
type api interface {
	CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// now is replaced in tests for a stable caller reference.
var now = time.Now

// Client implements deploy.CDN over the CloudFront API.
type Client struct {
	api api
}

// NewClient creates a CloudFront-backed CDN client for the run's identity.
func NewClient(cfg aws.Config) *Client {
	return &Client{api: cloudfront.NewFromConfig(cfg)}
}

// newClientWithAPI is used by tests to inject a stub API.
func newClientWithAPI(a api) *Client {
	return &Client{api: a}
}

// Invalidate clears the distribution's cache so freshly synced assets are
// served immediately.
func (c *Client) Invalidate(ctx context.Context, distributionID string) error {
	ref := fmt.Sprintf("tenantctl-%d", now().UnixNano())

	_, err := c.api.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: aws.String(ref),
			Paths: &types.Paths{
				Quantity: aws.Int32(1),
				Items:    []string{invalidateAll},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate distribution %s: %w", distributionID, err)
	}
	return nil
}
