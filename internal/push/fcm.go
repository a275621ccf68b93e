package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	messagingScope  = "https://www.googleapis.com/auth/firebase.messaging"
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	defaultAPIURL   = "https://fcm.googleapis.com"
)

// ServiceAccount is the subset of a Google service account JSON blob
// needed for the FCM HTTP v1 API.
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// ParseServiceAccount decodes a service account JSON blob.
func ParseServiceAccount(raw string) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, fmt.Errorf("invalid service account JSON: %w", err)
	}
	if sa.ProjectID == "" || sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, errors.New("service account JSON is missing project_id, client_email or private_key")
	}
	return &sa, nil
}

// Client sends push messages through the FCM HTTP v1 API, authenticating
// with a short-lived OAuth2 token obtained via a signed-JWT bearer grant.
type Client struct {
	sa         *ServiceAccount
	tokenURL   string
	apiURL     string
	httpClient *http.Client
}

func NewClient(sa *ServiceAccount, timeout time.Duration) *Client {
	return &Client{
		sa:         sa,
		tokenURL:   defaultTokenURL,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AccessToken signs a service-account JWT and trades it at the OAuth2
// token endpoint. Tokens are valid for one hour; no caching is done
// because a single token covers a whole fan-out batch.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	// Keys pasted through env vars sometimes carry literal \n sequences.
	pem := strings.ReplaceAll(c.sa.PrivateKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return "", fmt.Errorf("failed to parse service account private key: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"scope": messagingScope,
		"iss":   c.sa.ClientEmail,
		"sub":   c.sa.ClientEmail,
		"aud":   c.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign service account JWT: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token exchange returned %d: %s", resp.StatusCode, string(detail))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("token endpoint returned an empty access token")
	}
	return tokenResp.AccessToken, nil
}

// Message is one per-recipient push notification.
type Message struct {
	Token    string
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type androidNotification struct {
	Image string `json:"image"`
}

type androidConfig struct {
	Priority     string               `json:"priority"`
	Notification *androidNotification `json:"notification,omitempty"`
}

type apsPayload struct {
	Sound string `json:"sound"`
}

type apnsFCMOptions struct {
	Image string `json:"image"`
}

type apnsConfig struct {
	Headers    map[string]string     `json:"headers"`
	Payload    map[string]apsPayload `json:"payload"`
	FCMOptions *apnsFCMOptions       `json:"fcm_options,omitempty"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Android      androidConfig     `json:"android"`
	APNS         apnsConfig        `json:"apns"`
}

type sendRequest struct {
	Message fcmMessage `json:"message"`
}

// Send delivers one message to one device token. The v1 API only takes a
// single token per request.
func (c *Client) Send(ctx context.Context, accessToken string, msg *Message) error {
	payload := sendRequest{
		Message: fcmMessage{
			Token: msg.Token,
			Notification: notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
			Android: androidConfig{
				Priority: "high",
			},
			APNS: apnsConfig{
				Headers: map[string]string{"apns-priority": "10"},
				Payload: map[string]apsPayload{"aps": {Sound: "default"}},
			},
		},
	}
	if msg.ImageURL != "" {
		payload.Message.Android.Notification = &androidNotification{Image: msg.ImageURL}
		payload.Message.APNS.FCMOptions = &apnsFCMOptions{Image: msg.ImageURL}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	sendURL := fmt.Sprintf("%s/v1/projects/%s/messages:send", c.apiURL, c.sa.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fcm send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fcm send returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
