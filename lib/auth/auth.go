package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// Claims represents the JWT claims extracted from the API Gateway authorizer context
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	CognitoID string `json:"sub"`
	Role      string `json:"role,omitempty"`
}

// ExtractClaimsFromRequest extracts and parses JWT claims from API Gateway request
func ExtractClaimsFromRequest(request events.APIGatewayProxyRequest) (*Claims, error) {
	var claimsMap map[string]interface{}
	var ok bool

	if authClaims, exists := request.RequestContext.Authorizer["claims"]; exists {
		claimsMap, ok = authClaims.(map[string]interface{})
	}

	// Some API Gateway configurations put the claims directly on the authorizer
	if !ok {
		claimsMap = request.RequestContext.Authorizer
		ok = (claimsMap != nil)
	}

	if !ok || claimsMap == nil {
		return nil, fmt.Errorf("claims not found in authorizer context")
	}

	userID, err := int64Claim(claimsMap, "user_id")
	if err != nil {
		return nil, err
	}

	email, ok := claimsMap["email"].(string)
	if !ok {
		return nil, fmt.Errorf("email not found or invalid in claims")
	}

	cognitoID, ok := claimsMap["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("sub not found or invalid in claims")
	}

	role, _ := claimsMap["custom:role"].(string)
	if role == "" {
		role, _ = claimsMap["role"].(string)
	}

	return &Claims{
		UserID:    userID,
		Email:     email,
		CognitoID: cognitoID,
		Role:      role,
	}, nil
}

// int64Claim accepts both string and JSON number encodings
func int64Claim(claimsMap map[string]interface{}, name string) (int64, error) {
	value, exists := claimsMap[name]
	if !exists {
		return 0, fmt.Errorf("%s not found in claims", name)
	}

	switch v := value.(type) {
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %s string: %w", name, err)
		}
		return parsed, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%s has unexpected type", name)
	}
}

// BearerToken returns the raw access token from the Authorization header
func BearerToken(request events.APIGatewayProxyRequest) string {
	header := request.Headers["Authorization"]
	if header == "" {
		header = request.Headers["authorization"]
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// ToJSON converts claims to JSON string for logging
func (c *Claims) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}
