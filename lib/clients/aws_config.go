package clients

import (
	"context"

	"sitedash/lib/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// loadAWSConfig loads the default credential chain, pointing at LocalStack when running locally
func loadAWSConfig(isLocal bool) aws.Config {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(constants.AWS_REGION),
	)
	if err != nil {
		panic("failed to load AWS configuration: " + err.Error())
	}

	if isLocal {
		cfg.BaseEndpoint = aws.String(constants.LOCALSTACK_ENDPOINT)
	}
	return cfg
}
