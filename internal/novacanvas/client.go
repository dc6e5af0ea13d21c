package novacanvas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
)

// ModelInvoker is the slice of Bedrock the service needs: a raw InvokeModel
// round trip for Canvas and a Converse round trip for prompt ideation.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error)
	Converse(ctx context.Context, modelID string, prompt string) (string, error)
}

// BedrockClient implements ModelInvoker against the Bedrock runtime API.
type BedrockClient struct {
	runtime *bedrockruntime.Client
}

func NewBedrockClient(ctx context.Context, config ServiceConfig) (*BedrockClient, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &BedrockClient{
		runtime: bedrockruntime.NewFromConfig(awsConfig, func(o *bedrockruntime.Options) {
			o.RetryMaxAttempts = 1 // remote errors are surfaced, not retried
			o.HTTPClient = &http.Client{Timeout: requestTimeout(config)}
		}),
	}, nil
}

func (c *BedrockClient) InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	output, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, wrapBedrockError(err)
	}
	return output.Body, nil
}

func (c *BedrockClient) Converse(ctx context.Context, modelID string, prompt string) (string, error) {
	output, err := c.runtime.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(modelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
	})
	if err != nil {
		return "", wrapBedrockError(err)
	}
	message, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected converse output type %T", output.Output)
	}
	for _, block := range message.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			return text.Value, nil
		}
	}
	return "", errors.New("converse response contains no text block")
}

// wrapBedrockError keeps the remote message but tags the error so handlers
// can tell a rejected request from an unreachable service.
func wrapBedrockError(err error) error {
	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		return fmt.Errorf("%w: %s", ErrBedrockClient, apiError.ErrorMessage())
	}
	return fmt.Errorf("%w: %v", ErrBedrockUnavailable, err)
}

// requestTimeout mirrors the long read timeout the hosted model needs for
// premium renders.
func requestTimeout(config ServiceConfig) time.Duration {
	timeout := time.Duration(config.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return timeout
}
