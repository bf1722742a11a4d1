// Package ecr adapts the ECR control-plane API to the deploy.Registry
// contract.
//
// The registry is queried through the control plane rather than by trusting
// the push tool's exit status: a push can exit zero behind certain
// network/proxy failure modes without the artifact being retrievable, so
// presence is always confirmed independently.
package ecr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsecr "github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"

	"github.com/tenantctl/tenantctl/internal/deploy"
)

// api is the subset of the ECR client the adapter needs.
type api interface {
	DescribeRepositories(ctx context.Context, params *awsecr.DescribeRepositoriesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeRepositoriesOutput, error)
	DescribeImages(ctx context.Context, params *awsecr.DescribeImagesInput, optFns ...func(*awsecr.Options)) (*awsecr.DescribeImagesOutput, error)
	GetAuthorizationToken(ctx context.Context, params *awsecr.GetAuthorizationTokenInput, optFns ...func(*awsecr.Options)) (*awsecr.GetAuthorizationTokenOutput, error)
}

// Client implements deploy.Registry over the ECR API.
type Client struct {
	api api
}

// NewClient creates an ECR-backed registry client for the run's identity.
func NewClient(cfg aws.Config) *Client {
	return &Client{api: awsecr.NewFromConfig(cfg)}
}

// newClientWithAPI is used by tests to inject a stub API.
func newClientWithAPI(a api) *Client {
	return &Client{api: a}
}

// RepositoryExists reports whether the repository has been created.
// A not-found answer from the control plane is a definitive "absent", not
// an error.
func (c *Client) RepositoryExists(ctx context.Context, repository string) (bool, error) {
	_, err := c.api.DescribeRepositories(ctx, &awsecr.DescribeRepositoriesInput{
		RepositoryNames: []string{repository},
	})
	if err != nil {
		var notFound *types.RepositoryNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to describe repository %s: %w", repository, err)
	}
	return true, nil
}

// ImageExists reports whether the exact repository+tag combination is
// present in the registry.
func (c *Client) ImageExists(ctx context.Context, repository, tag string) (bool, error) {
	_, err := c.api.DescribeImages(ctx, &awsecr.DescribeImagesInput{
		RepositoryName: aws.String(repository),
		ImageIds:       []types.ImageIdentifier{{ImageTag: aws.String(tag)}},
	})
	if err != nil {
		var imageNotFound *types.ImageNotFoundException
		var repoNotFound *types.RepositoryNotFoundException
		if errors.As(err, &imageNotFound) || errors.As(err, &repoNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to describe image %s:%s: %w", repository, tag, err)
	}
	return true, nil
}

// AuthToken returns short-lived push credentials. The authorization data is
// base64 "user:password" plus the registry endpoint.
func (c *Client) AuthToken(ctx context.Context) (deploy.RegistryAuth, error) {
	out, err := c.api.GetAuthorizationToken(ctx, &awsecr.GetAuthorizationTokenInput{})
	if err != nil {
		return deploy.RegistryAuth{}, fmt.Errorf("failed to get registry authorization token: %w", err)
	}
	if len(out.AuthorizationData) == 0 || out.AuthorizationData[0].AuthorizationToken == nil {
		return deploy.RegistryAuth{}, fmt.Errorf("registry returned no authorization data")
	}

	data := out.AuthorizationData[0]
	decoded, err := base64.StdEncoding.DecodeString(*data.AuthorizationToken)
	if err != nil {
		return deploy.RegistryAuth{}, fmt.Errorf("failed to decode authorization token: %w", err)
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return deploy.RegistryAuth{}, fmt.Errorf("malformed authorization token")
	}

	auth := deploy.RegistryAuth{Username: user, Password: pass}
	if data.ProxyEndpoint != nil {
		auth.Endpoint = strings.TrimPrefix(*data.ProxyEndpoint, "https://")
	}
	return auth, nil
}

// RegistryHost returns the registry hostname for an account and region.
// Together with the verified account id this lets the pipeline derive every
// repository address without an extra provider round trip.
func RegistryHost(accountID, region string) string {
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", accountID, region)
}
