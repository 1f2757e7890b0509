package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"labubu_store/internal/catalog"
	"labubu_store/internal/config"
	"labubu_store/internal/listing"
	"labubu_store/internal/models"
)

func consoleSetup() (*config.Config, error) {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.Level())
	return cfg, nil
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "print one listing page",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "case-insensitive name filter"},
			&cli.StringSliceFlag{Name: "series", Usage: "series to include (repeatable)"},
			&cli.StringFlag{Name: "sort", Value: string(listing.SortNewest), Usage: "newest | price-asc | price-desc | name-asc"},
			&cli.IntFlag{Name: "page", Value: 1},
		},
		Action: func(c *cli.Context) error {
			cfg, err := consoleSetup()
			if err != nil {
				return err
			}
			key, err := listing.ParseSortKey(c.String("sort"))
			if err != nil {
				return err
			}
			state := listing.NewState().WithSearch(c.String("search")).WithSort(key)
			for _, name := range c.StringSlice("series") {
				state = state.WithSeries(name, true)
			}
			products, err := catalog.NewFixtureStore().List(c.Context)
			if err != nil {
				return err
			}
			page := listing.Paginate(products, state.Query(), cfg.PageSize)
			if n := c.Int("page"); n != 1 {
				if state, err = state.WithPage(n, page.TotalPages); err != nil {
					return fmt.Errorf("page %d: %w (%d pages)", n, err, page.TotalPages)
				}
				page = listing.Paginate(products, state.Query(), cfg.PageSize)
			}
			return printPage(c.App.Writer, page)
		},
	}
}

func printPage(w io.Writer, page listing.Page) error {
	if page.TotalCount == 0 {
		_, err := fmt.Fprintln(w, "No Labubus found. Try adjusting your filters.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSERIES\tPRICE\tSTATUS")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t$%s\t%s\n", p.Name, p.Series, p.Price.StringFixed(2), status(p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s   (%d products)\n", window(page), page.TotalCount)
	return err
}

func status(p models.Product) string {
	var tags []string
	if p.IsNew {
		tags = append(tags, "new")
	}
	if p.IsOutOfStock {
		tags = append(tags, "out of stock")
	}
	return strings.Join(tags, ", ")
}

func window(page listing.Page) string {
	var parts []string
	for _, link := range listing.Window(page.Page, page.TotalPages) {
		switch {
		case link.Ellipsis:
			parts = append(parts, "...")
		case link.Active:
			parts = append(parts, fmt.Sprintf("[%d]", link.Number))
		default:
			parts = append(parts, fmt.Sprint(link.Number))
		}
	}
	return strings.Join(parts, " ")
}

func productCommand() *cli.Command {
	return &cli.Command{
		Name:      "product",
		Usage:     "print a product page",
		ArgsUsage: "<slug>",
		Action: func(c *cli.Context) error {
			if _, err := consoleSetup(); err != nil {
				return err
			}
			slug := c.Args().First()
			if slug == "" {
				return cli.ShowCommandHelp(c, "product")
			}
			detail, err := catalog.NewFixtureStore().GetBySlug(c.Context, slug)
			if errors.Is(err, catalog.ErrProductNotFound) {
				_, err = fmt.Fprintf(c.App.Writer, "Product %q not found.\n", slug)
				return err
			}
			if err != nil {
				return err
			}
			return printProduct(c.App.Writer, detail)
		},
	}
}

func printProduct(w io.Writer, d *models.ProductDetail) error {
	rating := d.Rating()
	fmt.Fprintf(w, "%s  $%s\n", d.Name, d.Price.StringFixed(2))
	fmt.Fprintf(w, "%s | SKU %s | %s\n", d.Series, d.SKU, d.Availability)
	fmt.Fprintf(w, "Rating %s (%d reviews)\n\n", rating.AverageRating.StringFixed(1), rating.TotalReviews)
	fmt.Fprintln(w, d.Description)
	for _, s := range d.Specifications {
		fmt.Fprintf(w, "  %s: %s\n", s.Title, s.Content)
	}
	for _, r := range d.Reviews {
		fmt.Fprintf(w, "\n  %s %s (%d/5)\n  %s\n", r.Author, r.Date, r.Rating, r.Comment)
	}
	_, err := fmt.Fprintln(w)
	return err
}
