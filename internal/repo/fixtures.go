package repo

import (
	"errors"
	"fmt"
	"io"
	"os"

	validator "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/toko-checkout/internal/campaign"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/coupon"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// ErrInvalidFixtures marks catalog data that failed validation.
var ErrInvalidFixtures = errors.New("invalid catalog fixtures")

// Fixtures is the on-disk shape of the catalog seed data.
type Fixtures struct {
	Categories []catalog.Category  `yaml:"categories" validate:"dive"`
	Products   []catalog.Product   `yaml:"products" validate:"dive"`
	Campaigns  []campaign.Campaign `yaml:"campaigns" validate:"dive"`
	Coupons    []coupon.Coupon     `yaml:"coupons" validate:"dive"`
}

// LoadFile reads fixtures from a YAML file.
func LoadFile(path string, v *validator.Validate) (Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("open catalog fixtures: %w", err)
	}
	defer f.Close()
	return Load(f, v)
}

// Load decodes and validates YAML fixtures.
func Load(r io.Reader, v *validator.Validate) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, fmt.Errorf("decode catalog fixtures: %w", err)
	}
	if err := fx.Validate(v); err != nil {
		return Fixtures{}, err
	}
	return fx, nil
}

// Validate checks struct tags and the invariants tags cannot express.
func (fx Fixtures) Validate(v *validator.Validate) error {
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(fx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFixtures, err)
	}
	for i, p := range fx.Products {
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: product %q has a negative price", ErrInvalidFixtures, p.Title)
		}
		if i > 0 && hasTitle(fx.Products[:i], p.Title) {
			return fmt.Errorf("%w: duplicate product %q", ErrInvalidFixtures, p.Title)
		}
	}
	for _, c := range fx.Campaigns {
		if err := checkDiscount(c.Discount); err != nil {
			return fmt.Errorf("%w: campaign %q: %v", ErrInvalidFixtures, c.Category, err)
		}
	}
	for i, c := range fx.Coupons {
		if err := checkDiscount(c.Discount); err != nil {
			return fmt.Errorf("%w: coupon %d: %v", ErrInvalidFixtures, i, err)
		}
		if c.MinAmount.IsNegative() {
			return fmt.Errorf("%w: coupon %d: negative minimum amount", ErrInvalidFixtures, i)
		}
	}
	h := catalog.NewHierarchy(fx.Categories)
	for _, c := range h.Categories() {
		if _, err := h.Lineage(c.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFixtures, err)
		}
	}
	return nil
}

func hasTitle(products []catalog.Product, title string) bool {
	for _, p := range products {
		if p.Title == title {
			return true
		}
	}
	return false
}

func checkDiscount(d pricing.Discount) error {
	if _, err := pricing.Resolve(d, pricing.Zero); err != nil {
		return err
	}
	if d.Magnitude.IsNegative() {
		return errors.New("negative discount magnitude")
	}
	return nil
}
