package model

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// DecodeRow maps a live-notification payload onto a row struct. The SDK
// delivers live records as map[string]any with SDK value types already in
// place (models.RecordID, models.CustomDateTime), which mapstructure
// assigns through its identity shortcut.
func DecodeRow[T any](raw map[string]any) (*T, error) {
	row := new(T)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           row,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build row decoder")
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "decode live record")
	}

	return row, nil
}
