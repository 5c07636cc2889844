package store

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
)

// PresetStore persists named filter presets and the active filter
// configuration.
type PresetStore struct {
	cache Cache
	newID func() string
}

// NewPresetStore returns a PresetStore backed by c.
func NewPresetStore(c Cache) *PresetStore {
	return &PresetStore{cache: c, newID: func() string { return uuid.New().String() }}
}

// List returns the saved presets in save order.
func (p *PresetStore) List() ([]models.FilterPreset, error) {
	raw, ok, err := p.cache.Get(KeyFilterPresets)
	if err != nil {
		return nil, types.NewError(types.KindStorage, "read filter presets", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var presets []models.FilterPreset
	if err := json.Unmarshal([]byte(raw), &presets); err != nil {
		return nil, types.NewError(types.KindFormat, "filter presets are corrupt", err)
	}
	return presets, nil
}

// Save stores filters under name. Saving over an existing name (compared
// case-insensitively) replaces its filters and keeps its id.
func (p *PresetStore) Save(name string, filters models.FilterConfig) (models.FilterPreset, error) {
	name = strings.TrimSpace(name)
	filters.Tags = models.NormalizeFilterTags(filters.Tags)
	if err := filters.Validate(); err != nil {
		return models.FilterPreset{}, types.NewError(types.KindValidation, "invalid filters", err)
	}

	presets, err := p.List()
	if err != nil {
		return models.FilterPreset{}, err
	}

	preset := models.FilterPreset{ID: p.newID(), Name: name, Filters: filters}
	replaced := false
	for i := range presets {
		if strings.EqualFold(presets[i].Name, name) {
			preset.ID = presets[i].ID
			presets[i] = preset
			replaced = true
			break
		}
	}
	if err := models.ValidateStruct(preset); err != nil {
		return models.FilterPreset{}, types.NewError(types.KindValidation, "invalid preset", err)
	}
	if !replaced {
		presets = append(presets, preset)
	}
	if err := p.write(presets); err != nil {
		return models.FilterPreset{}, err
	}
	return preset, nil
}

// Get finds a preset by id or name (case-insensitive).
func (p *PresetStore) Get(ref string) (models.FilterPreset, error) {
	presets, err := p.List()
	if err != nil {
		return models.FilterPreset{}, err
	}
	if i := findPreset(presets, ref); i >= 0 {
		return presets[i], nil
	}
	return models.FilterPreset{}, types.NewError(types.KindNotFound, "preset "+strings.TrimSpace(ref)+" not found", nil)
}

// Delete removes a preset by id or name.
func (p *PresetStore) Delete(ref string) error {
	presets, err := p.List()
	if err != nil {
		return err
	}
	i := findPreset(presets, ref)
	if i < 0 {
		return types.NewError(types.KindNotFound, "preset "+strings.TrimSpace(ref)+" not found", nil)
	}
	presets = append(presets[:i], presets[i+1:]...)
	return p.write(presets)
}

// Apply makes the preset's filters the active configuration, replacing it
// wholesale.
func (p *PresetStore) Apply(ref string) (models.FilterPreset, error) {
	preset, err := p.Get(ref)
	if err != nil {
		return models.FilterPreset{}, err
	}
	if err := p.SetActive(preset.Filters); err != nil {
		return models.FilterPreset{}, err
	}
	return preset, nil
}

// Active returns the active filter configuration, zero when none is stored.
func (p *PresetStore) Active() (models.FilterConfig, error) {
	raw, ok, err := p.cache.Get(KeyActiveFilters)
	if err != nil {
		return models.FilterConfig{}, types.NewError(types.KindStorage, "read active filters", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return models.FilterConfig{}, nil
	}
	var f models.FilterConfig
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return models.FilterConfig{}, types.NewError(types.KindFormat, "active filters are corrupt", err)
	}
	return f, nil
}

// SetActive validates and stores the active filter configuration. The zero
// configuration clears it.
func (p *PresetStore) SetActive(f models.FilterConfig) error {
	if f.IsZero() {
		if err := p.cache.Delete(KeyActiveFilters); err != nil {
			return types.NewError(types.KindStorage, "clear active filters", err)
		}
		return nil
	}
	if err := f.Validate(); err != nil {
		return types.NewError(types.KindValidation, "invalid filters", err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return types.NewError(types.KindStorage, "encode active filters", err)
	}
	if err := p.cache.Set(KeyActiveFilters, string(data)); err != nil {
		return types.NewError(types.KindStorage, "write active filters", err)
	}
	return nil
}

func (p *PresetStore) write(presets []models.FilterPreset) error {
	if presets == nil {
		presets = []models.FilterPreset{}
	}
	data, err := json.Marshal(presets)
	if err != nil {
		return types.NewError(types.KindStorage, "encode filter presets", err)
	}
	if err := p.cache.Set(KeyFilterPresets, string(data)); err != nil {
		return types.NewError(types.KindStorage, "write filter presets", err)
	}
	return nil
}

func findPreset(presets []models.FilterPreset, ref string) int {
	ref = strings.TrimSpace(ref)
	for i, pr := range presets {
		if pr.ID == ref {
			return i
		}
	}
	for i, pr := range presets {
		if strings.EqualFold(pr.Name, ref) {
			return i
		}
	}
	return -1
}
