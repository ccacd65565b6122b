package identity

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Source supplies the raw identity config document
type Source interface {
	// Fetch returns the serialized config document
	Fetch(ctx context.Context) ([]byte, error)
	// Name identifies the source in logs and metrics
	Name() string
}

// ParameterGetter is the slice of the SSM API the parameter-store source
// depends on. Tests substitute a stub; production uses *ssm.Client.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStoreSource reads the config document from AWS Systems Manager
// Parameter Store. The parameter name is fixed at construction; request
// handling never derives it from caller input.
type ParameterStoreSource struct {
	client        ParameterGetter
	parameterName string
}

// NewParameterStoreSource creates a source reading the named parameter
func NewParameterStoreSource(client ParameterGetter, parameterName string) *ParameterStoreSource {
	return &ParameterStoreSource{
		client:        client,
		parameterName: parameterName,
	}
}

// NewParameterStoreSourceFromEnv builds the SSM client from the default AWS
// credential chain (instance profile, execution role, or environment).
func NewParameterStoreSourceFromEnv(ctx context.Context, parameterName string) (*ParameterStoreSource, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewParameterStoreSource(ssm.NewFromConfig(awsCfg), parameterName), nil
}

// NewParameterStoreSourceLocal targets a parameter-store emulator such as
// localstack, with throwaway static credentials. The emulator accepts any
// region; pass whatever it was started with.
func NewParameterStoreSourceLocal(endpoint, region, parameterName string) *ParameterStoreSource {
	client := ssm.New(ssm.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
	})
	return NewParameterStoreSource(client, parameterName)
}

// Fetch reads the parameter value, decrypting SecureString parameters
func (s *ParameterStoreSource) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.parameterName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter %s: %w", s.parameterName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s has no value", s.parameterName)
	}
	return []byte(*out.Parameter.Value), nil
}

// Name implements Source
func (s *ParameterStoreSource) Name() string {
	return "parameter-store"
}

// FileSource reads the config document from a local file, for standalone
// and development deployments.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the given file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the file contents
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}
	return data, nil
}

// Name implements Source
func (s *FileSource) Name() string {
	return "file"
}

// Path returns the file location, for the change watcher
func (s *FileSource) Path() string {
	return s.path
}
