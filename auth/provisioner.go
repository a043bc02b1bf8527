package auth

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	goerrors "github.com/go-errors/errors"
)

// CreateAccountRequest is the provisioning collaborator's wire format.
type CreateAccountRequest struct {
	UserID          string  `json:"UserID"`
	UserDetails     string  `json:"UserDetails"`
	AccountType     string  `json:"AccountType"`
	CurrentBalance  float64 `json:"CurrentBalance"`
	AvailableCredit float64 `json:"AvailableCredit"`
}

// HTTPProvisioner posts new sign-ins to the account-provisioning endpoint.
// The endpoint owns create-if-absent semantics; this client just delivers
// the request.
type HTTPProvisioner struct {
	URL             string
	AccountType     string
	AvailableCredit float64
	Client          *http.Client
}

func NewHTTPProvisioner(url string) *HTTPProvisioner {
	return &HTTPProvisioner{
		URL:             url,
		AccountType:     "credit",
		AvailableCredit: 5000,
		Client:          &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPProvisioner) EnsureAccount(ctx context.Context, userID, email string) error {
	payload := CreateAccountRequest{
		UserID:          userID,
		UserDetails:     email,
		AccountType:     p.AccountType,
		CurrentBalance:  0,
		AvailableCredit: p.AvailableCredit,
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return goerrors.Wrap(err, 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return goerrors.Wrap(err, 0)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return goerrors.Wrap(err, 0)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return goerrors.Errorf("provisioning endpoint returned %d", res.StatusCode)
	}

	return nil
}
