// Command receipt prints the receipt for a cart file against the configured catalog.
//
//	receipt [cart.yaml]
//
// Without an argument a built-in sample cart is priced.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/toko-checkout/internal/cart"
	"github.com/noah-isme/toko-checkout/internal/config"
	"github.com/noah-isme/toko-checkout/internal/obs"
	"github.com/noah-isme/toko-checkout/internal/repo"
)

var sampleCart = cart.Request{Items: []cart.Item{
	{Product: "Green Apple", Quantity: 25},
	{Product: "Orange", Quantity: 10},
	{Product: "Dell Notebook", Quantity: 1},
}}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := obs.NewLogger("console", cfg.Obs.LogLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := run(os.Args[1:], cfg, logger, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("print receipt")
		os.Exit(1)
	}
}

func run(args []string, cfg *config.Config, logger zerolog.Logger, out io.Writer) error {
	v := validator.New()
	fx, err := repo.LoadFile(cfg.CatalogFile, v)
	if err != nil {
		return err
	}
	catalog := repo.NewCatalog(fx)

	req := sampleCart
	if len(args) > 0 {
		req, err = readCart(args[0])
		if err != nil {
			return err
		}
	}
	if err := v.Struct(req); err != nil {
		return fmt.Errorf("invalid cart: %w", err)
	}

	c, err := cart.Resolve(catalog, req.Items)
	if err != nil {
		return err
	}
	receipt, err := cart.ServiceFor(catalog.Snapshot(), cfg.Delivery, logger).Print(c)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(receipt)
}

func readCart(path string) (cart.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return cart.Request{}, fmt.Errorf("open cart: %w", err)
	}
	defer f.Close()
	var req cart.Request
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return cart.Request{}, fmt.Errorf("decode cart %s: %w", path, err)
	}
	return req, nil
}
