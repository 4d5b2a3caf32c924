package anaf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"metalshop/internal/metrics"
)

// Company is the subset of the ANAF record the storefront uses to prefill
// RFQ and account forms.
type Company struct {
	CUI        string `json:"cui"`
	Found      bool   `json:"found"`
	Name       string `json:"name,omitempty"`
	Address    string `json:"address,omitempty"`
	RegCom     string `json:"regCom,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	VATPayer   bool   `json:"vatPayer"`
	Inactive   bool   `json:"inactive"`
	Status     string `json:"status,omitempty"`
}

type lookupRequest struct {
	CUI  int64  `json:"cui"`
	Data string `json:"data"`
}

type lookupResponse struct {
	Cod      int           `json:"cod"`
	Message  string        `json:"message"`
	Found    []foundRecord `json:"found"`
	NotFound []json.Number `json:"notFound"`
}

type foundRecord struct {
	General struct {
		CUI        int64  `json:"cui"`
		Name       string `json:"denumire"`
		Address    string `json:"adresa"`
		RegCom     string `json:"nrRegCom"`
		Phone      string `json:"telefon"`
		PostalCode string `json:"codPostal"`
		Status     string `json:"stare_inregistrare"`
	} `json:"date_generale"`
	VAT struct {
		Payer bool `json:"scpTVA"`
	} `json:"inregistrare_scop_Tva"`
	Inactive struct {
		Status bool `json:"statusInactivi"`
	} `json:"stare_inactiv"`
}

// Client calls the ANAF VAT payer endpoint.
type Client struct {
	URL  string
	HTTP *http.Client
	// Now is used for the query date; defaults to time.Now.
	Now func() time.Time
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}, Now: time.Now}
}

// Lookup queries one already validated CUI. An unknown company is not an error:
// it comes back with Found=false.
func (c *Client) Lookup(ctx context.Context, cui string) (Company, error) {
	n, err := strconv.ParseInt(cui, 10, 64)
	if err != nil {
		return Company{}, ErrInvalidCUI
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	body, err := json.Marshal([]lookupRequest{{CUI: n, Data: now().Format("2006-01-02")}})
	if err != nil {
		return Company{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return Company{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	timer := metrics.NewTimer()
	resp, err := c.HTTP.Do(req)
	metrics.RecordAnafUpstream(timer.Duration())
	if err != nil {
		return Company{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Company{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Company{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if len(out.Found) == 0 {
		return Company{CUI: cui, Found: false}, nil
	}

	f := out.Found[0]
	return Company{
		CUI:        cui,
		Found:      true,
		Name:       strings.TrimSpace(f.General.Name),
		Address:    strings.TrimSpace(f.General.Address),
		RegCom:     strings.TrimSpace(f.General.RegCom),
		Phone:      strings.TrimSpace(f.General.Phone),
		PostalCode: strings.TrimSpace(f.General.PostalCode),
		VATPayer:   f.VAT.Payer,
		Inactive:   f.Inactive.Status,
		Status:     strings.TrimSpace(f.General.Status),
	}, nil
}
