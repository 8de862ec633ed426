// Package matrix keeps a product's variant list consistent with the colors
// and sizes an admin has selected.
//
// Every function takes a Draft by value and returns a new one; the input is
// never modified. A variant exists for each (color, size) pair in the
// cross product of the selected sets and for nothing else. Fields an admin
// edited on an existing pair (stock, price, images, SKU, primary flag) are
// carried over untouched.
package matrix

import (
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/model"
)

var (
	ErrNoVariants        = apperr.Validation("matrix.no_variants")
	ErrIncompleteVariant = apperr.Validation("matrix.incomplete_variant")
	ErrMatrixIncomplete  = apperr.Validation("matrix.incomplete_grid")
	ErrDuplicatePair     = apperr.Validation("matrix.duplicate_pair")
	ErrColorNotInMatrix  = apperr.Validation("matrix.color_not_in_matrix")
	ErrNegativeStock     = apperr.Validation("matrix.negative_stock")
)

type ColorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Variant struct {
	ID            string   `json:"id,omitempty"` // empty until persisted
	ColorID       string   `json:"color_id"`
	Size          string   `json:"size"`
	SKU           string   `json:"sku"`
	Price         *float64 `json:"price" validate:"omitnil,gte=0"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Images        []string `json:"images"`
	PendingImages []string `json:"pending_images,omitempty"` // upload refs resolved on save
	IsPrimary     bool     `json:"is_primary"`
}

// Draft is the unsaved edit buffer for a product's variants.
type Draft struct {
	SKUPrefix string     `json:"sku_prefix"`
	Colors    []ColorRef `json:"colors"`
	Sizes     []string   `json:"sizes"`
	Variants  []Variant  `json:"variants" validate:"dive"`
}

type pair struct {
	color string
	size  string
}

// ApplyColorChange replaces the selected colors.
func ApplyColorChange(d Draft, colors []ColorRef, gen SKUGenerator) Draft {
	return reconcile(d, colors, d.Sizes, gen)
}

// ApplySizeChange replaces the selected sizes.
func ApplySizeChange(d Draft, sizes []string, gen SKUGenerator) Draft {
	return reconcile(d, d.Colors, sizes, gen)
}

func reconcile(d Draft, colors []ColorRef, sizes []string, gen SKUGenerator) Draft {
	colors = uniqueColors(colors)
	sizes = uniqueSizes(sizes)

	colorSet := make(map[string]bool, len(colors))
	for _, c := range colors {
		colorSet[c.ID] = true
	}
	sizeSet := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		sizeSet[s] = true
	}

	have := make(map[pair]bool, len(colors)*len(sizes))
	variants := make([]Variant, 0, len(colors)*len(sizes))
	for _, v := range d.Variants {
		p := pair{v.ColorID, v.Size}
		if !colorSet[p.color] || !sizeSet[p.size] || have[p] {
			continue
		}
		have[p] = true
		variants = append(variants, v.clone())
	}

	for _, c := range colors {
		for _, s := range sizes {
			p := pair{c.ID, s}
			if have[p] {
				continue
			}
			have[p] = true
			variants = append(variants, Variant{
				ColorID: c.ID,
				Size:    s,
				SKU:     gen.NewSKU(d.SKUPrefix, c.Name, s),
				Images:  []string{},
			})
		}
	}

	return Draft{
		SKUPrefix: d.SKUPrefix,
		Colors:    colors,
		Sizes:     sizes,
		Variants:  variants,
	}
}

// SetPrimary makes the first variant of colorID the only primary variant.
func SetPrimary(d Draft, colorID string) (Draft, error) {
	out := d.clone()
	idx := -1
	for i, v := range out.Variants {
		if v.ColorID == colorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return out, ErrColorNotInMatrix.With("ColorID", colorID)
	}
	for i := range out.Variants {
		out.Variants[i].IsPrimary = i == idx
	}
	return out, nil
}

// Finalize validates a draft before it is saved. The variants must be
// exactly the cross product of the selected colors and sizes. Exactly one
// variant is primary afterwards (none if there are no variants): extra flags
// are cleared and, when nothing is flagged, the first variant is chosen.
func Finalize(d Draft) (Draft, error) {
	if len(d.Colors) > 0 && len(d.Variants) == 0 {
		return d, ErrNoVariants
	}

	colors := uniqueColors(d.Colors)
	sizes := uniqueSizes(d.Sizes)
	colorSet := make(map[string]bool, len(colors))
	for _, c := range colors {
		colorSet[c.ID] = true
	}
	sizeSet := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		sizeSet[s] = true
	}

	out := d.clone()
	seen := make(map[pair]bool, len(out.Variants))
	primary := -1
	for i, v := range out.Variants {
		if v.ColorID == "" || strings.TrimSpace(v.Size) == "" {
			return d, ErrIncompleteVariant
		}
		if !colorSet[v.ColorID] || !sizeSet[v.Size] {
			return d, ErrIncompleteVariant.With("Size", v.Size)
		}
		p := pair{v.ColorID, v.Size}
		if seen[p] {
			return d, ErrDuplicatePair.With("Size", v.Size)
		}
		seen[p] = true
		if v.Stock < 0 {
			return d, ErrNegativeStock
		}

		if v.IsPrimary {
			if primary < 0 {
				primary = i
			} else {
				out.Variants[i].IsPrimary = false
			}
		}
	}
	// Every variant is a distinct in-grid pair, so a short count means a gap.
	if len(seen) != len(colors)*len(sizes) {
		return d, ErrMatrixIncomplete
	}

	if primary < 0 && len(out.Variants) > 0 {
		out.Variants[0].IsPrimary = true
	}
	return out, nil
}

// TotalStock is the product's aggregate stock.
func TotalStock(variants []Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

// FromProduct builds an edit draft from stored rows. Variants whose color
// was deleted are dropped: a variant always needs both axes.
func FromProduct(p *model.Product) Draft {
	d := Draft{Variants: make([]Variant, 0, len(p.Variants))}
	if p.SKU != nil {
		d.SKUPrefix = *p.SKU
	}

	seenColor := map[string]bool{}
	seenSize := map[string]bool{}
	for _, v := range p.Variants {
		if v.ColorID == nil {
			continue
		}
		colorID := *v.ColorID
		if !seenColor[colorID] {
			seenColor[colorID] = true
			name := ""
			if v.ColorName != nil {
				name = *v.ColorName
			}
			d.Colors = append(d.Colors, ColorRef{ID: colorID, Name: name})
		}
		if !seenSize[v.Size] {
			seenSize[v.Size] = true
			d.Sizes = append(d.Sizes, v.Size)
		}

		sku := ""
		if v.SKU != nil {
			sku = *v.SKU
		}
		d.Variants = append(d.Variants, Variant{
			ID:        v.ID,
			ColorID:   colorID,
			Size:      v.Size,
			SKU:       sku,
			Price:     v.Price,
			Stock:     v.Stock,
			Images:    append([]string{}, v.Images...),
			IsPrimary: v.IsPrimary,
		})
	}
	return d
}

func uniqueColors(colors []ColorRef) []ColorRef {
	out := make([]ColorRef, 0, len(colors))
	seen := make(map[string]bool, len(colors))
	for _, c := range colors {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func uniqueSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func (v Variant) clone() Variant {
	out := v
	if v.Price != nil {
		price := *v.Price
		out.Price = &price
	}
	if v.Images != nil {
		out.Images = append([]string{}, v.Images...)
	}
	if v.PendingImages != nil {
		out.PendingImages = append([]string{}, v.PendingImages...)
	}
	return out
}

func (d Draft) clone() Draft {
	out := Draft{SKUPrefix: d.SKUPrefix}
	if d.Colors != nil {
		out.Colors = append([]ColorRef{}, d.Colors...)
	}
	if d.Sizes != nil {
		out.Sizes = append([]string{}, d.Sizes...)
	}
	if d.Variants != nil {
		out.Variants = make([]Variant, len(d.Variants))
		for i, v := range d.Variants {
			out.Variants[i] = v.clone()
		}
	}
	return out
}
