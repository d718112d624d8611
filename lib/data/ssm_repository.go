package data

import (
	"context"
	"fmt"

	"sitedash/lib/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/sirupsen/logrus"
)

// SSMRepository loads the service configuration from Parameter Store
type SSMRepository interface {
	GetParameters(ctx context.Context) (map[string]string, error)
}

type SSMClientInterface interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// SSMDao reads every parameter below Path, following NextToken pages
type SSMDao struct {
	SSM    SSMClientInterface
	Path   string
	Logger *logrus.Logger
}

func (dao *SSMDao) GetParameters(ctx context.Context) (map[string]string, error) {
	path := dao.Path
	if path == "" {
		path = constants.SSM_PARAMETER_PATH
	}

	params := map[string]string{}
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	pages := 0
	for {
		output, err := dao.SSM.GetParametersByPath(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to read parameters under %s: %w", path, err)
		}
		pages++

		for _, param := range output.Parameters {
			params[aws.ToString(param.Name)] = aws.ToString(param.Value)
		}

		if output.NextToken == nil {
			break
		}
		input.NextToken = output.NextToken
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":  "GetParameters",
		"path":       path,
		"pages":      pages,
		"parameters": len(params),
	}).Debug("Loaded SSM parameters")

	return params, nil
}
