package models

import (
	"slices"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Kind names a catalog of rentable items.
type Kind string

const (
	KindCamera    Kind = "cameras"
	KindAccessory Kind = "accessories"
)

// Media is a reference to an image or video attached to an item.
type Media struct {
	ID   string `json:"id,omitempty"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// Branch is the rental point an item is attributed to.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is the shape shared by every rentable item.
// ID is assigned by the remote service and never changes afterwards.
type Item struct {
	ID             string          `json:"id"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Variant        string          `json:"variant,omitempty"`
	SerialNumber   string          `json:"serialNumber,omitempty"`
	BaseDailyRate  decimal.Decimal `json:"baseDailyRate"`
	EstimatedValue decimal.Decimal `json:"estimatedValue"`
	DepositPercent decimal.Decimal `json:"depositPercentage"`
	MinDeposit     decimal.Decimal `json:"minDeposit"`
	MaxDeposit     decimal.Decimal `json:"maxDeposit"`
	Media          []Media         `json:"media,omitempty"`
	Specs          string          `json:"specs,omitempty"`
	IsConfirmed    bool            `json:"isConfirmed"`
	IsAvailable    bool            `json:"isAvailable"`
	OwnerID        string          `json:"ownerId,omitempty"`
	Branch         *Branch         `json:"branch,omitempty"`
}

// Common returns the shared part of an item. Variants embedding Item get it for free.
func (i Item) Common() Item {
	return i
}

// BranchName returns the branch name or an empty string.
func (i Item) BranchName() string {
	if i.Branch == nil {
		return ""
	}
	return i.Branch.Name
}

// SpecMap decodes the serialized specification blob into key/value pairs.
// Non-object blobs yield an empty map.
func (i Item) SpecMap() map[string]string {
	specs := make(map[string]string)
	if i.Specs == "" || !gjson.Valid(i.Specs) {
		return specs
	}

	parsed := gjson.Parse(i.Specs)
	if !parsed.IsObject() {
		return specs
	}

	parsed.ForEach(func(key, value gjson.Result) bool {
		specs[key.String()] = value.String()
		return true
	})

	return specs
}

// Camera is a rentable camera body.
type Camera struct {
	Item

	Mount        string `json:"mount,omitempty"`
	SensorFormat string `json:"sensorFormat,omitempty"`
}

// Accessory is a rentable lens, light, tripod or similar.
type Accessory struct {
	Item

	Category         string   `json:"category,omitempty"`
	CompatibleMounts []string `json:"compatibleMounts,omitempty"`
}

// Listing is satisfied by every catalog variant.
type Listing interface {
	Common() Item
}

func (i Item) clone() Item {
	if i.Branch != nil {
		branch := *i.Branch
		i.Branch = &branch
	}
	i.Media = slices.Clone(i.Media)
	return i
}

// Clone returns a copy of v that shares no memory with it.
func Clone[T Listing](v T) T {
	switch x := any(v).(type) {
	case Camera:
		x.Item = x.Item.clone()
		return any(x).(T)
	case Accessory:
		x.Item = x.Item.clone()
		x.CompatibleMounts = slices.Clone(x.CompatibleMounts)
		return any(x).(T)
	case Item:
		return any(x.clone()).(T)
	default:
		return v
	}
}
