package clients

import (
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

func NewSSMClient(isLocal bool) *ssm.Client {
	return ssm.NewFromConfig(loadAWSConfig(isLocal))
}
