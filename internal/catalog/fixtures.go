package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"labubu_store/internal/models"
)

var seriesOptions = []string{"Dreamy Series", "Summer Fun", "Enchanted Forest", "Spooky Cute", "Classic Collection"}

type fixture struct {
	id, slug, name, price, series string
	color                         string // placeholder image palette, "bg/fg"
	isNew, outOfStock             bool
	short, description            string
	tags                          []string
	reviews                       []models.Review
}

var fixtures = []fixture{
	{
		id: "1", slug: "sleepy-cloud-labubu", name: "Sleepy Cloud Labubu", price: "29.99",
		series: "Dreamy Series", color: "fbcfe8/9d174d", isNew: true,
		short:       "A dreamy companion in a fluffy cloud outfit, ready for cuddles.",
		description: "Drift into dreams with the Sleepy Cloud Labubu, adorned in a fluffy cloud-themed outfit. This charming doll is perfect for gentle cuddles and imaginative play, bringing a touch of sky-blue serenity to your collection.",
		tags:        []string{"Cloud", "Sleepy", "Blue", "Cute"},
		reviews: []models.Review{
			{ID: "r1", Author: "Ella F.", Rating: 5, Comment: "Absolutely adorable! The details are amazing, so soft and cuddly.", Date: "2024-07-15"},
			{ID: "r2", Author: "Ben K.", Rating: 4, Comment: "My daughter loves it. Very well made and arrived quickly!", Date: "2024-07-10"},
		},
	},
	{
		id: "2", slug: "sunny-day-labubu", name: "Sunny Day Labubu", price: "32.50",
		series: "Summer Fun", color: "fef08a/c026d3",
		short:       "Sunshine in vinyl form, ready for the beach.",
		description: "The Sunny Day Labubu brings a bright summer mood to any shelf, complete with a tiny sun hat.",
		tags:        []string{"Summer", "Yellow"},
	},
	{
		id: "3", slug: "forest-sprite-labubu", name: "Forest Sprite Labubu", price: "28.00",
		series: "Enchanted Forest", color: "dcfce7/15803d", outOfStock: true,
		short:       "A mischievous sprite from the deep woods.",
		description: "Dressed in leaves and moss, the Forest Sprite Labubu guards the secrets of the Enchanted Forest.",
		tags:        []string{"Forest", "Green"},
	},
	{
		id: "4", slug: "mini-monster-labubu", name: "Mini Monster Labubu", price: "25.99",
		series: "Spooky Cute", color: "e0e7ff/3730a3",
		short:       "Small, toothy and impossibly cute.",
		description: "The Mini Monster Labubu proves that the smallest monsters have the biggest grins.",
		tags:        []string{"Monster", "Purple"},
	},
	{
		id: "5", slug: "dreamy-galaxy-labubu", name: "Dreamy Galaxy Labubu", price: "35.00",
		series: "Dreamy Series", color: "f3e8ff/581c87", isNew: true,
		short:       "Stardust and sweet dreams.",
		description: "Wrapped in a galaxy-print cape, the Dreamy Galaxy Labubu floats in from the outer reaches of the Dreamy Series.",
		tags:        []string{"Galaxy", "Stars"},
	},
	{
		id: "6", slug: "adventure-time-labubu", name: "Adventure Time Labubu", price: "31.00",
		series: "Summer Fun", color: "fee2e2/9f1239",
		short:       "Backpack packed, map in hand.",
		description: "The Adventure Time Labubu is always ready for the next summer expedition.",
		tags:        []string{"Adventure", "Red"},
	},
	{
		id: "7", slug: "winter-wonder-labubu", name: "Winter Wonder Labubu", price: "33.00",
		series: "Enchanted Forest", color: "e0f2fe/075985",
		short:       "Snowflakes and a cosy scarf.",
		description: "Bundled up for the first snow, the Winter Wonder Labubu brings frosty magic to the Enchanted Forest.",
		tags:        []string{"Winter", "Snow"},
	},
	{
		id: "8", slug: "robo-buddy-labubu", name: "Robo Buddy Labubu", price: "38.00",
		series: "Spooky Cute", color: "d1d5db/1f2937",
		short:       "Beep boop, best friends forever.",
		description: "Half robot, all heart: the Robo Buddy Labubu is the Spooky Cute series' friendliest machine.",
		tags:        []string{"Robot", "Grey"},
	},
}

func fixtureDetails() []models.ProductDetail {
	out := make([]models.ProductDetail, 0, len(fixtures))
	for i, f := range fixtures {
		label := strings.ReplaceAll(strings.TrimSuffix(f.name, " Labubu"), " ", "+")
		availability := models.InStock
		if f.outOfStock {
			availability = models.OutOfStock
		}
		out = append(out, models.ProductDetail{
			Product: models.Product{
				ID:           f.id,
				Slug:         f.slug,
				Name:         f.name,
				Price:        decimal.RequireFromString(f.price),
				ImageURL:     fmt.Sprintf("https://placehold.co/300x300/%s?text=%s&font=lora", f.color, label),
				Series:       f.series,
				IsNew:        f.isNew,
				IsOutOfStock: f.outOfStock,
			},
			Images: []string{
				fmt.Sprintf("https://placehold.co/600x600/%s?text=%s+1&font=lora", f.color, label),
				fmt.Sprintf("https://placehold.co/600x600/%s?text=%s+2&font=lora", f.color, label),
			},
			Description:      f.description,
			ShortDescription: f.short,
			Specifications: []models.Specification{
				{Title: "Material", Content: "High-quality Vinyl, Soft Fabric Outfit"},
				{Title: "Height", Content: "Approximately 10cm (4 inches)"},
				{Title: "Series", Content: f.series},
				{Title: "Designer", Content: "Kasing Lung x POP MART"},
			},
			Availability: availability,
			SKU:          fmt.Sprintf("LBB-%s-%03d", initials(f.series), i+1),
			Tags:         f.tags,
			Reviews:      f.reviews,
		})
	}
	return out
}

func initials(s string) string {
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		b.WriteByte(w[0])
	}
	return strings.ToUpper(b.String())
}
