// Package preflight verifies that a deployment run can reach and
// authenticate against the cloud control plane before any mutating call.
//
// The check is deliberately two-staged so operators are pointed at the
// right problem: a DNS failure against the regional identity endpoint is a
// network fault, a rejected identity call is a credential fault, and
// anything else is surfaced verbatim as unknown. The check runs exactly
// once per run and never retries: downstream phases are expensive and
// partially irreversible, so transient failures must be visible.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/tenantctl/tenantctl/internal/fault"
)

// dnsTimeout bounds the name-resolution stage.
const dnsTimeout = 10 * time.Second

// credentialErrorCodes are the identity-check error codes classified as
// credential faults. Codes outside this table are never guessed at; they
// surface as unknown with the raw message attached.
var credentialErrorCodes = map[string]struct{}{
	"InvalidClientTokenId":        {},
	"UnrecognizedClientException": {},
	"SignatureDoesNotMatch":       {},
	"ExpiredToken":                {},
	"AccessDenied":                {},
	"AccessDeniedException":       {},
	"MissingAuthenticationToken":  {},
}

// identityAPI is the subset of the STS client the verifier needs.
type identityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Function variables for dependency injection in tests.
var (
	lookupHost = func(ctx context.Context, host string) ([]string, error) {
		return net.DefaultResolver.LookupHost(ctx, host)
	}

	newIdentityClient = func(cfg aws.Config) identityAPI {
		return sts.NewFromConfig(cfg)
	}
)

// ControlPlaneEndpoint returns the regional identity endpoint probed by the
// DNS stage.
func ControlPlaneEndpoint(region string) string {
	return fmt.Sprintf("sts.%s.amazonaws.com", region)
}

// Verify confirms that the control plane is reachable and the ambient
// credentials are usable, returning the account ID the run operates as.
func Verify(ctx context.Context, awsCfg aws.Config, region string) (string, error) {
	endpoint := ControlPlaneEndpoint(region)

	dnsCtx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	if _, err := lookupHost(dnsCtx, endpoint); err != nil {
		return "", fault.Wrap(fault.KindNetwork,
			fmt.Sprintf("resolve control plane endpoint %s", endpoint), err)
	}

	out, err := newIdentityClient(awsCfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", classifyIdentityError(err)
	}
	if out.Account == nil || *out.Account == "" {
		return "", fault.New(fault.KindUnknown, "verify identity", "identity check returned no account id")
	}

	return *out.Account, nil
}

// classifyIdentityError maps an identity-check failure onto the taxonomy by
// structured error code, keeping the raw message for diagnostics.
func classifyIdentityError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := credentialErrorCodes[apiErr.ErrorCode()]; ok {
			return fault.Wrap(fault.KindCredential, "verify identity", err)
		}
	}
	return fault.Wrap(fault.KindUnknown, "verify identity", err)
}
