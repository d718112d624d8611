package clients

import (
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// NewCognitoClient creates the identity provider client used for sign-out
func NewCognitoClient(isLocal bool) *cognitoidentityprovider.Client {
	return cognitoidentityprovider.NewFromConfig(loadAWSConfig(isLocal))
}
