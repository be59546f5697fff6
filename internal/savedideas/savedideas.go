// Package savedideas хранит сохраненные идеи пользователя.
// Элементы только добавляются и удаляются; редактирования нет.
package savedideas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

// Key - ключ, под которым хранится список
const Key = "savedIdeas"

var ErrIndexOutOfRange = errors.New("saved idea index out of range")

// Store - хранилище ключ-значение
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// List - список сохраненных идей, синхронизированный с хранилищем
type List struct {
	mu    sync.Mutex
	store Store
	items []string
}

// Load читает список из хранилища
func Load(ctx context.Context, store Store) (*List, error) {
	raw, ok, err := store.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("load saved ideas: %w", err)
	}
	l := &List{store: store}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &l.items); err != nil {
			return nil, fmt.Errorf("decode saved ideas: %w", err)
		}
	}
	return l, nil
}

// All возвращает копию списка
func (l *List) All() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.items...)
}

// Add добавляет идею в конец списка
func (l *List) Add(ctx context.Context, idea string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	updated := append(append([]string(nil), l.items...), idea)
	if err := l.persist(ctx, updated); err != nil {
		return err
	}
	l.items = updated
	return nil
}

// Delete удаляет ровно элемент i, порядок остальных сохраняется
func (l *List) Delete(ctx context.Context, i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	updated := make([]string, 0, len(l.items)-1)
	updated = append(updated, l.items[:i]...)
	updated = append(updated, l.items[i+1:]...)
	if err := l.persist(ctx, updated); err != nil {
		return err
	}
	l.items = updated
	return nil
}

func (l *List) persist(ctx context.Context, items []string) error {
	if len(items) == 0 {
		if err := l.store.Delete(ctx, Key); err != nil {
			return fmt.Errorf("persist saved ideas: %w", err)
		}
		return nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode saved ideas: %w", err)
	}
	if err := l.store.Set(ctx, Key, string(b)); err != nil {
		return fmt.Errorf("persist saved ideas: %w", err)
	}
	return nil
}

// AddIdea сохраняет идею целиком, в виде JSON
func (l *List) AddIdea(ctx context.Context, idea *models.GeneratedIdea) error {
	b, err := json.Marshal(idea)
	if err != nil {
		return fmt.Errorf("encode idea: %w", err)
	}
	return l.Add(ctx, string(b))
}

// Decode разбирает сохраненную запись; для записи не в формате JSON ok = false
func Decode(entry string) (models.GeneratedIdea, bool) {
	var idea models.GeneratedIdea
	if err := json.Unmarshal([]byte(entry), &idea); err != nil || idea.ProjectTitle == "" {
		return models.GeneratedIdea{}, false
	}
	return idea, true
}

// Title возвращает название идеи или саму запись, если ее не удалось разобрать
func Title(entry string) string {
	if idea, ok := Decode(entry); ok {
		return idea.ProjectTitle
	}
	return entry
}

// MemoryStore - хранилище в памяти
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
