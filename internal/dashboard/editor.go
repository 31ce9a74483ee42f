package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/flamedough/api/internal/docstore"
)

// document is a JSON document at a fixed path that falls back to defaults
// while absent.
type document[T any] struct {
	store    docstore.Store
	path     string
	defaults func() T
}

func (d document[T]) decode(raw []byte, exists bool) (T, error) {
	if !exists {
		return d.defaults(), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", d.path, err)
	}
	return v, nil
}

func (d document[T]) get(ctx context.Context) (T, error) {
	raw, ok, err := d.store.Read(ctx, d.path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %s: %w", d.path, err)
	}
	return d.decode(raw, ok)
}

// apply runs fn against the current document and persists the result in one
// atomic update. Nothing is written when fn fails.
func (d document[T]) apply(ctx context.Context, fn func(*T) error) (T, error) {
	var out T
	_, err := d.store.Update(ctx, d.path, func(current []byte, exists bool) ([]byte, error) {
		v, err := d.decode(current, exists)
		if err != nil {
			return nil, err
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		out = v
		return json.Marshal(v)
	})
	return out, err
}

func (d document[T]) put(ctx context.Context, v T) error {
	return docstore.WriteJSON(ctx, d.store, d.path, v)
}

// seed writes the defaults unless the document exists. force overwrites.
func (d document[T]) seed(ctx context.Context, force bool) (bool, error) {
	if force {
		return true, d.put(ctx, d.defaults())
	}
	wrote := false
	_, err := d.store.Update(ctx, d.path, func(_ []byte, exists bool) ([]byte, error) {
		if exists {
			wrote = false
			return nil, docstore.ErrNoChange
		}
		wrote = true
		return json.Marshal(d.defaults())
	})
	if err != nil {
		return false, err
	}
	return wrote, nil
}

// MenuEditor persists dashboard menu edits to the menu document.
type MenuEditor struct {
	doc   document[Menu]
	newID func() string
}

func NewMenuEditor(store docstore.Store) *MenuEditor {
	return &MenuEditor{
		doc:   document[Menu]{store: store, path: docstore.PathMenu, defaults: DefaultMenu},
		newID: uuid.NewString,
	}
}

func (e *MenuEditor) Get(ctx context.Context) (Menu, error) {
	return e.doc.get(ctx)
}

// Edit applies fn to the stored menu. fn receives an id generator for any
// entities it creates.
func (e *MenuEditor) Edit(ctx context.Context, fn func(m *Menu, newID func() string) error) (Menu, error) {
	return e.doc.apply(ctx, func(m *Menu) error { return fn(m, e.newID) })
}

func (e *MenuEditor) Seed(ctx context.Context, force bool) (bool, error) {
	return e.doc.seed(ctx, force)
}

// SettingsEditor persists dashboard settings edits to the settings document.
type SettingsEditor struct {
	doc document[Settings]
}

func NewSettingsEditor(store docstore.Store) *SettingsEditor {
	return &SettingsEditor{doc: document[Settings]{store: store, path: docstore.PathSettings, defaults: DefaultSettings}}
}

func (e *SettingsEditor) Get(ctx context.Context) (Settings, error) {
	return e.doc.get(ctx)
}

func (e *SettingsEditor) Edit(ctx context.Context, fn func(s *Settings) error) (Settings, error) {
	return e.doc.apply(ctx, fn)
}

// Reset restores and persists the default settings.
func (e *SettingsEditor) Reset(ctx context.Context) (Settings, error) {
	s := DefaultSettings()
	return s, e.doc.put(ctx, s)
}

func (e *SettingsEditor) Seed(ctx context.Context, force bool) (bool, error) {
	return e.doc.seed(ctx, force)
}
