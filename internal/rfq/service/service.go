package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"metalshop/internal/anaf"
	bom "metalshop/internal/bom/model"
	cart "metalshop/internal/cart/model"
	cartSvc "metalshop/internal/cart/service"
	catalog "metalshop/internal/catalog/model"
	"metalshop/internal/metrics"
	"metalshop/internal/rfq/model"
)

var ErrInvalidTransition = errors.New("status transition not allowed")

type Repository interface {
	Create(ctx context.Context, q model.RFQ) error
	Get(ctx context.Context, id string) (model.RFQ, error)
	ListByEmail(ctx context.Context, email string) ([]model.RFQ, error)
	Modify(ctx context.Context, id string, fn func(*model.RFQ) error) (model.RFQ, error)
}

type Products interface {
	GetMany(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

type Service struct {
	repo      Repository
	products  Products
	estimator *cartSvc.Estimator
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, products Products, estimator *cartSvc.Estimator, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		estimator: estimator,
		logger:    logger.With().Str("component", "rfq").Logger(),
		now:       time.Now,
	}
}

// Submit validates req, prices the catalog items it references and stores a
// new RFQ in status submitted. Validation problems come back as *model.ValidationError.
func (s *Service) Submit(ctx context.Context, req model.Request) (model.RFQ, error) {
	req = clean(req)
	if err := Validate(&req); err != nil {
		metrics.RecordRFQ("invalid")
		return model.RFQ{}, err
	}

	est, err := s.estimate(ctx, req.Items)
	if err != nil {
		metrics.RecordRFQ("error")
		return model.RFQ{}, err
	}

	now := s.now().UTC()
	id := uuid.New()
	q := model.RFQ{
		ID:        id.String(),
		Reference: Reference(now, id),
		Status:    model.StatusSubmitted,
		Request:   req,
		Estimate:  est,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		metrics.RecordRFQ("error")
		return model.RFQ{}, err
	}
	metrics.RecordRFQ("accepted")
	s.logger.Info().
		Str("reference", q.Reference).
		Str("cui", q.Company.CUI).
		Int("items", len(q.Items)).
		Msg("rfq submitted")
	return q, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.RFQ, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]model.RFQ, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		v := &model.ValidationError{}
		v.Add("email", "Adresa de email este obligatorie")
		return nil, v
	}
	return s.repo.ListByEmail(ctx, email)
}

// UpdateStatus moves an RFQ along its workflow.
func (s *Service) UpdateStatus(ctx context.Context, id string, next model.Status) (model.RFQ, error) {
	if !next.Valid() {
		v := &model.ValidationError{}
		v.Add("status", fmt.Sprintf("Status necunoscut: %q", next))
		return model.RFQ{}, v
	}
	var prev model.Status
	q, err := s.repo.Modify(ctx, id, func(q *model.RFQ) error {
		if !q.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, next)
		}
		prev = q.Status
		q.Status = next
		q.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return model.RFQ{}, err
	}
	s.logger.Info().Str("reference", q.Reference).Str("from", string(prev)).Str("to", string(next)).Msg("rfq status")
	return q, nil
}

func (s *Service) estimate(ctx context.Context, items []model.Item) (*cart.Estimate, error) {
	lines := make([]cart.Line, 0, len(items))
	for _, it := range items {
		if it.ProductID != "" {
			lines = append(lines, cart.Line{ProductID: it.ProductID, Qty: it.Qty, Unit: it.Unit})
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}
	products, err := s.products.GetMany(ctx, cartSvc.ProductIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("rfq estimate: %w", err)
	}
	est := s.estimator.Estimate(lines, products)
	return &est, nil
}

// Reference builds the human-facing id RFQ-YYYYMMDD-XXXXXX.
func Reference(t time.Time, id uuid.UUID) string {
	return "RFQ-" + t.Format("20060102") + "-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
}

// Validate checks req in place, normalizing the CUI to its digits.
func Validate(req *model.Request) error {
	v := &model.ValidationError{}

	if req.Company.Name == "" {
		v.Add("company.name", "Denumirea firmei este obligatorie")
	}
	if cui, err := anaf.ValidateCUI(req.Company.CUI); err != nil {
		v.Add("company.cui", "CUI invalid")
	} else {
		req.Company.CUI = cui
	}
	if req.Contact.Name == "" {
		v.Add("contact.name", "Numele persoanei de contact este obligatoriu")
	}
	if addr, err := mail.ParseAddress(req.Contact.Email); err != nil || addr.Address != req.Contact.Email {
		v.Add("contact.email", "Adresa de email nu este validă")
	}

	if len(req.Items) == 0 {
		v.Add("items", "Cererea trebuie să conțină cel puțin un produs")
	}
	for i, it := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" && it.Description == "" {
			v.Add(field+".description", "Descrierea sau produsul este obligatoriu")
		}
		if it.Qty <= 0 {
			v.Add(field+".qty", "Cantitatea trebuie să fie pozitivă")
		}
		if !bom.Unit(it.Unit).Valid() {
			v.Add(field+".unit", fmt.Sprintf("Unitate necunoscută: %q", it.Unit))
		}
	}
	return v.Err()
}

func clean(req model.Request) model.Request {
	req.Company.Name = strings.TrimSpace(req.Company.Name)
	req.Company.CUI = strings.TrimSpace(req.Company.CUI)
	req.Contact.Name = strings.TrimSpace(req.Contact.Name)
	req.Contact.Email = strings.TrimSpace(req.Contact.Email)
	items := make([]model.Item, len(req.Items))
	for i, it := range req.Items {
		it.ProductID = strings.TrimSpace(it.ProductID)
		it.Description = strings.TrimSpace(it.Description)
		it.Unit = strings.ToLower(strings.TrimSpace(it.Unit))
		items[i] = it
	}
	req.Items = items
	return req
}
