package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/bundle"
)

// bundlePayloadSchema constrains the JSON document persisted per bundle: a
// map of field name to typed chunk list. Rows that fail validation never
// reach the database.
const bundlePayloadSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"properties": {
			"type": {"enum": ["string", "text", "url", "html"]},
			"source_value": {"type": "string"},
			"data": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"source_value": {"type": "string"},
						"target_value": {"type": "string"}
					},
					"required": ["source_value", "target_value"]
				}
			}
		},
		"required": ["type", "data"]
	}
}`

// progressPayloadSchema constrains the per-locale progress map.
const progressPayloadSchema = `{
	"type": "object",
	"additionalProperties": {"type": "integer", "minimum": 0, "maximum": 2}
}`

var (
	bundleSchema   = jsonschema.MustCompileString("bundle_payload.json", bundlePayloadSchema)
	progressSchema = jsonschema.MustCompileString("progress_payload.json", progressPayloadSchema)
)

type bundleModel struct {
	bun.BaseModel `bun:"table:translation_bundles,alias:tb"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	Key          string          `bun:"key,notnull,unique"`
	ResourceType string          `bun:"resource_type,notnull"`
	ResourceKey  string          `bun:"resource_key,notnull"`
	Locale       string          `bun:"locale,notnull"`
	Data         json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull"`
}

type progressModel struct {
	bun.BaseModel `bun:"table:translation_progress,alias:tp"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid"`
	Key          string          `bun:"key,notnull,unique"`
	Translatable bool            `bun:"translatable,notnull"`
	Data         json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull"`
}

func newBundleModelRepository(db *bun.DB) repository.Repository[*bundleModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*bundleModel]{
		NewRecord: func() *bundleModel { return &bundleModel{} },
		GetID: func(m *bundleModel) uuid.UUID {
			return m.ID
		},
		SetID: func(m *bundleModel, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(m *bundleModel) string {
			return m.Key
		},
	})
}

func newProgressModelRepository(db *bun.DB) repository.Repository[*progressModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*progressModel]{
		NewRecord: func() *progressModel { return &progressModel{} },
		GetID: func(m *progressModel) uuid.UUID {
			return m.ID
		},
		SetID: func(m *progressModel, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(m *progressModel) string {
			return m.Key
		},
	})
}

// BunBundleRepository persists bundles in a translation_bundles table with
// the field data as a validated JSON document. Single-key reads go through
// the generic repository so an optional repository cache can sit in front;
// bulk operations use raw bun queries.
type BunBundleRepository struct {
	db   *bun.DB
	repo repository.Repository[*bundleModel]
}

// NewBunBundleRepository creates a bundle repository without caching.
func NewBunBundleRepository(db *bun.DB) *BunBundleRepository {
	return NewBunBundleRepositoryWithCache(db, nil, nil)
}

// NewBunBundleRepositoryWithCache creates a bundle repository with caching
// services in front of single-key reads.
func NewBunBundleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunBundleRepository {
	base := newBundleModelRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunBundleRepository{db: db, repo: base}
}

// Load returns the bundle stored under the key.
func (r *BunBundleRepository) Load(ctx context.Context, key bundle.Key) (*bundle.Bundle, error) {
	model, err := r.repo.GetByIdentifier(ctx, key.String())
	if err != nil {
		return nil, mapRepositoryError(err, "bundle", key.String())
	}
	return bundleFromModel(model)
}

// LoadAll returns every stored bundle.
func (r *BunBundleRepository) LoadAll(ctx context.Context) ([]*bundle.Bundle, error) {
	var models []*bundleModel
	if err := r.db.NewSelect().Model(&models).Order("key ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("storage: load bundles: %w", err)
	}
	return bundlesFromModels(models)
}

// LoadAllForLocale returns every stored bundle targeting the locale.
func (r *BunBundleRepository) LoadAllForLocale(ctx context.Context, locale string) ([]*bundle.Bundle, error) {
	var models []*bundleModel
	if err := r.db.NewSelect().Model(&models).Where("locale = ?", locale).Order("key ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("storage: load bundles for locale %q: %w", locale, err)
	}
	return bundlesFromModels(models)
}

// Save upserts one bundle.
func (r *BunBundleRepository) Save(ctx context.Context, b *bundle.Bundle) error {
	return r.SaveAll(ctx, []*bundle.Bundle{b})
}

// SaveAll upserts every bundle in one statement per row batch, keyed on the
// unique bundle key.
func (r *BunBundleRepository) SaveAll(ctx context.Context, bundles []*bundle.Bundle) error {
	if len(bundles) == 0 {
		return nil
	}
	models := make([]*bundleModel, 0, len(bundles))
	now := time.Now().UTC()
	for _, b := range bundles {
		model, err := bundleToModel(b, now)
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	_, err := r.db.NewInsert().
		Model(&models).
		On("CONFLICT (key) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storage: save bundles: %w", err)
	}
	return nil
}

// DeleteAllForLocale removes every bundle targeting the locale.
func (r *BunBundleRepository) DeleteAllForLocale(ctx context.Context, locale string) (int, error) {
	res, err := r.db.NewDelete().
		Model((*bundleModel)(nil)).
		Where("locale = ?", locale).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage: delete bundles for locale %q: %w", locale, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: count deleted bundles for locale %q: %w", locale, err)
	}
	return int(affected), nil
}

// BunProgressRepository persists progress records in a
// translation_progress table.
type BunProgressRepository struct {
	db   *bun.DB
	repo repository.Repository[*progressModel]
}

// NewBunProgressRepository creates a progress repository without caching.
func NewBunProgressRepository(db *bun.DB) *BunProgressRepository {
	return NewBunProgressRepositoryWithCache(db, nil, nil)
}

// NewBunProgressRepositoryWithCache creates a progress repository with
// caching services in front of single-key reads.
func NewBunProgressRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunProgressRepository {
	base := newProgressModelRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunProgressRepository{db: db, repo: base}
}

// Load returns the progress record for the resource.
func (r *BunProgressRepository) Load(ctx context.Context, key bundle.ResourceKey) (*bundle.ProgressRecord, error) {
	model, err := r.repo.GetByIdentifier(ctx, key.String())
	if err != nil {
		return nil, mapRepositoryError(err, "progress", key.String())
	}
	return progressFromModel(model)
}

// LoadAll returns every stored progress record.
func (r *BunProgressRepository) LoadAll(ctx context.Context) ([]*bundle.ProgressRecord, error) {
	var models []*progressModel
	if err := r.db.NewSelect().Model(&models).Order("key ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("storage: load progress records: %w", err)
	}
	out := make([]*bundle.ProgressRecord, 0, len(models))
	for _, model := range models {
		record, err := progressFromModel(model)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// Save upserts one progress record.
func (r *BunProgressRepository) Save(ctx context.Context, record *bundle.ProgressRecord) error {
	return r.SaveAll(ctx, []*bundle.ProgressRecord{record})
}

// SaveAll upserts every progress record.
func (r *BunProgressRepository) SaveAll(ctx context.Context, records []*bundle.ProgressRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]*progressModel, 0, len(records))
	now := time.Now().UTC()
	for _, record := range records {
		model, err := progressToModel(record, now)
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	_, err := r.db.NewInsert().
		Model(&models).
		On("CONFLICT (key) DO UPDATE").
		Set("translatable = EXCLUDED.translatable").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storage: save progress records: %w", err)
	}
	return nil
}

// CreateTables creates the storage schema if it does not exist. Intended
// for embedded deployments and tests; managed deployments run migrations.
func CreateTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*bundleModel)(nil),
		(*progressModel)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_translation_bundles_locale ON translation_bundles(locale)"); err != nil {
		return fmt.Errorf("storage: create locale index: %w", err)
	}
	return nil
}

func bundleToModel(b *bundle.Bundle, now time.Time) (*bundleModel, error) {
	data, err := json.Marshal(b.Fields)
	if err != nil {
		return nil, fmt.Errorf("storage: encode bundle %q: %w", b.Key.String(), err)
	}
	if err := validatePayload(bundleSchema, data); err != nil {
		return nil, fmt.Errorf("storage: bundle %q payload: %w", b.Key.String(), err)
	}
	return &bundleModel{
		ID:           uuid.New(),
		Key:          b.Key.String(),
		ResourceType: b.Key.Resource.Type,
		ResourceKey:  b.Key.Resource.Key,
		Locale:       b.Key.Locale,
		Data:         data,
		UpdatedAt:    now,
	}, nil
}

func bundleFromModel(model *bundleModel) (*bundle.Bundle, error) {
	key, err := bundle.ParseKey(model.Key)
	if err != nil {
		return nil, fmt.Errorf("storage: stored bundle key %q: %w", model.Key, err)
	}
	b := bundle.New(key)
	if len(model.Data) > 0 {
		if err := json.Unmarshal(model.Data, &b.Fields); err != nil {
			return nil, fmt.Errorf("storage: decode bundle %q: %w", model.Key, err)
		}
	}
	return b, nil
}

func bundlesFromModels(models []*bundleModel) ([]*bundle.Bundle, error) {
	out := make([]*bundle.Bundle, 0, len(models))
	for _, model := range models {
		b, err := bundleFromModel(model)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func progressToModel(record *bundle.ProgressRecord, now time.Time) (*progressModel, error) {
	data, err := json.Marshal(record.Progress)
	if err != nil {
		return nil, fmt.Errorf("storage: encode progress %q: %w", record.Resource.String(), err)
	}
	if err := validatePayload(progressSchema, data); err != nil {
		return nil, fmt.Errorf("storage: progress %q payload: %w", record.Resource.String(), err)
	}
	return &progressModel{
		ID:           uuid.New(),
		Key:          record.Resource.String(),
		Translatable: record.Translatable,
		Data:         data,
		UpdatedAt:    now,
	}, nil
}

func progressFromModel(model *progressModel) (*bundle.ProgressRecord, error) {
	key, err := bundle.ParseResourceKey(model.Key)
	if err != nil {
		return nil, fmt.Errorf("storage: stored progress key %q: %w", model.Key, err)
	}
	record := bundle.NewProgressRecord(key)
	record.Translatable = model.Translatable
	if len(model.Data) > 0 {
		if err := json.Unmarshal(model.Data, &record.Progress); err != nil {
			return nil, fmt.Errorf("storage: decode progress %q: %w", model.Key, err)
		}
	}
	return record, nil
}

// validatePayload checks the serialized document against the schema before
// it is written.
func validatePayload(schema *jsonschema.Schema, data []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &bundle.NotFoundError{Kind: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
