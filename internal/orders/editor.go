package orders

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultMealType = "Breakfast"

// ValidationError is a user-facing input problem. It is returned as a value
// and rendered as a message to the client, never raised as a panic.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(message string) error {
	return &ValidationError{Message: message}
}

// LineItem is one editable row of a table order.
type LineItem struct {
	Code  string          `json:"code,omitempty"`
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// TableForm is the in-progress order for a single table.
type TableForm struct {
	ID          string     `json:"id"`
	MealType    string     `json:"mealType"`
	TableNumber string     `json:"tableNumber"`
	Items       []LineItem `json:"items"`
}

// MenuItem is a priced catalog entry identified by a short unique code.
type MenuItem struct {
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

func emptyLineItem() LineItem {
	return LineItem{Qty: 1, Price: decimal.Zero}
}

// NewTableForm returns a fresh form with one empty line item.
func NewTableForm() TableForm {
	return TableForm{
		ID:       uuid.NewString(),
		MealType: DefaultMealType,
		Items:    []LineItem{emptyLineItem()},
	}
}

// All editor operations below are copy-on-write: they never mutate the input
// slices, so callers can detect changes by identity comparison.

func AddForm(forms []TableForm) []TableForm {
	out := make([]TableForm, 0, len(forms)+1)
	out = append(out, forms...)
	return append(out, NewTableForm())
}

func RemoveForm(forms []TableForm, formID string) ([]TableForm, error) {
	if len(forms) <= 1 {
		return forms, validationErr("At least one form is required")
	}
	out := make([]TableForm, 0, len(forms)-1)
	for _, f := range forms {
		if f.ID != formID {
			out = append(out, f)
		}
	}
	if len(out) == len(forms) {
		return forms, validationErr("Form not found")
	}
	return out, nil
}

func UpdateForm(forms []TableForm, formID, field, value string) ([]TableForm, error) {
	return replaceForm(forms, formID, func(f TableForm) (TableForm, error) {
		switch field {
		case "tableNumber":
			f.TableNumber = value
		case "mealType":
			f.MealType = value
		default:
			return f, validationErr("Unknown form field: " + field)
		}
		return f, nil
	})
}

func AddItem(forms []TableForm, formID string) ([]TableForm, error) {
	return replaceForm(forms, formID, func(f TableForm) (TableForm, error) {
		items := make([]LineItem, 0, len(f.Items)+1)
		items = append(items, f.Items...)
		f.Items = append(items, emptyLineItem())
		return f, nil
	})
}

func RemoveItem(forms []TableForm, formID string, index int) ([]TableForm, error) {
	return replaceForm(forms, formID, func(f TableForm) (TableForm, error) {
		if len(f.Items) <= 1 {
			return f, validationErr("At least one item is required")
		}
		if index < 0 || index >= len(f.Items) {
			return f, validationErr("Item not found")
		}
		items := make([]LineItem, 0, len(f.Items)-1)
		items = append(items, f.Items[:index]...)
		f.Items = append(items, f.Items[index+1:]...)
		return f, nil
	})
}

// UpdateItem replaces a single field of one line item. Numeric fields are
// coerced to safe minimums on parse failure; item codes are upper-cased so
// lookups against the menu stay consistent.
func UpdateItem(forms []TableForm, formID string, index int, field, value string) ([]TableForm, error) {
	return replaceForm(forms, formID, func(f TableForm) (TableForm, error) {
		if index < 0 || index >= len(f.Items) {
			return f, validationErr("Item not found")
		}
		items := make([]LineItem, len(f.Items))
		copy(items, f.Items)
		item := items[index]
		switch field {
		case "name":
			item.Name = value
		case "code":
			item.Code = strings.ToUpper(strings.TrimSpace(value))
		case "qty":
			item.Qty = coerceQty(value)
		case "price":
			item.Price = coercePrice(value)
		default:
			return f, validationErr("Unknown item field: " + field)
		}
		items[index] = item
		f.Items = items
		return f, nil
	})
}

func replaceForm(forms []TableForm, formID string, apply func(TableForm) (TableForm, error)) ([]TableForm, error) {
	for i, f := range forms {
		if f.ID != formID {
			continue
		}
		updated, err := apply(f)
		if err != nil {
			return forms, err
		}
		out := make([]TableForm, len(forms))
		copy(out, forms)
		out[i] = updated
		return out, nil
	}
	return forms, validationErr("Form not found")
}

func coerceQty(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func coercePrice(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ValidateForGenerate checks every form right before submission. Transient
// gaps (empty names, duplicate rows) are allowed while editing; only a
// generate request enforces completeness.
func ValidateForGenerate(forms []TableForm) error {
	if len(forms) == 0 {
		return validationErr("At least one form is required")
	}
	for _, f := range forms {
		if strings.TrimSpace(f.TableNumber) == "" {
			return validationErr("Please enter table number for all forms")
		}
	}
	for _, f := range forms {
		for _, item := range f.Items {
			if strings.TrimSpace(item.Name) == "" || item.Qty <= 0 || !item.Price.IsPositive() {
				return validationErr("Please fill all item details in all forms")
			}
		}
	}
	return nil
}

// Menu rows share the same editor rules as order rows: never fewer than one
// row, numeric coercion on entry, uniqueness checked only at save time.

func AddMenuItem(items []MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, MenuItem{Price: decimal.Zero})
}

func RemoveMenuItem(items []MenuItem, index int) ([]MenuItem, error) {
	if len(items) <= 1 {
		return items, validationErr("At least one menu item is required")
	}
	if index < 0 || index >= len(items) {
		return items, validationErr("Menu item not found")
	}
	out := make([]MenuItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

func UpdateMenuItem(items []MenuItem, index int, field, value string) ([]MenuItem, error) {
	if index < 0 || index >= len(items) {
		return items, validationErr("Menu item not found")
	}
	out := make([]MenuItem, len(items))
	copy(out, items)
	item := out[index]
	switch field {
	case "menuItemId":
		item.MenuItemID = strings.ToUpper(strings.TrimSpace(value))
	case "name":
		item.Name = value
	case "price":
		item.Price = coercePrice(value)
	default:
		return items, validationErr("Unknown menu item field: " + field)
	}
	out[index] = item
	return out, nil
}

// ValidateMenuItems rejects incomplete rows and duplicate item codes before
// any request reaches the backend.
func ValidateMenuItems(items []MenuItem) error {
	if len(items) == 0 {
		return validationErr("At least one menu item is required")
	}
	for _, item := range items {
		if strings.TrimSpace(item.MenuItemID) == "" || strings.TrimSpace(item.Name) == "" || !item.Price.IsPositive() {
			return validationErr("Please fill all fields for all menu items")
		}
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := strings.ToUpper(strings.TrimSpace(item.MenuItemID))
		if seen[id] {
			return validationErr("Menu item codes must be unique")
		}
		seen[id] = true
	}
	return nil
}
