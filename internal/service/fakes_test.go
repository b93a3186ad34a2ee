package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/propidesk/listings-module/internal/domain/model"
	"github.com/propidesk/listings-module/internal/repository"
)

// fakePropertyRepo — репозиторий объектов в памяти для тестов.
type fakePropertyRepo struct {
	props  map[int64]*model.Property
	nextID int64

	createErr  error
	listAllErr error
	updateErr  error
	deleteErr  error
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{props: map[int64]*model.Property{}, nextID: 1}
}

func (f *fakePropertyRepo) Create(_ context.Context, p *model.Property) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.PropertieID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.props[p.PropertieID] = &cp
	return nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id int64) (*model.Property, error) {
	p, ok := f.props[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePropertyRepo) ListAll(_ context.Context) ([]*model.Property, error) {
	if f.listAllErr != nil {
		return nil, f.listAllErr
	}
	result := make([]*model.Property, 0, len(f.props))
	for _, p := range f.props {
		cp := *p
		result = append(result, &cp)
	}
	// Новые первыми, как ORDER BY created_at DESC
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].PropertieID > result[j].PropertieID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakePropertyRepo) List(ctx context.Context, _, _ *string, _, _ int) ([]*model.Property, error) {
	return f.ListAll(ctx)
}

func (f *fakePropertyRepo) Update(_ context.Context, p *model.Property) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.props[p.PropertieID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	f.props[p.PropertieID] = &cp
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.props[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.props, id)
	return nil
}

func (f *fakePropertyRepo) Count(_ context.Context, _, _ *string) (int, error) {
	return len(f.props), nil
}

// fakeAssetsRepo — репозиторий изображений в памяти для тестов.
type fakeAssetsRepo struct {
	assets map[int64]*model.PropertyAssets
	nextID int64
	// rawOverride — сырые images для ListAll, эмуляция исторических форм
	rawOverride map[int64][]byte

	createErr  error
	listAllErr error
	updateErr  error
	deleteErr  error
}

func newFakeAssetsRepo() *fakeAssetsRepo {
	return &fakeAssetsRepo{
		assets:      map[int64]*model.PropertyAssets{},
		nextID:      1,
		rawOverride: map[int64][]byte{},
	}
}

func (f *fakeAssetsRepo) Create(_ context.Context, a *model.PropertyAssets) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.PropertiesAssetsID = f.nextID
	f.nextID++
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	f.assets[a.PropertieID] = &cp
	return nil
}

func (f *fakeAssetsRepo) GetByPropertyID(_ context.Context, propertieID int64) (*model.PropertyAssets, error) {
	a, ok := f.assets[propertieID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	cp.Images = make(model.ImageSet, len(a.Images))
	for k, v := range a.Images {
		cp.Images[k] = v
	}
	return &cp, nil
}

func (f *fakeAssetsRepo) ListAll(_ context.Context) ([]repository.AssetsRow, error) {
	if f.listAllErr != nil {
		return nil, f.listAllErr
	}
	var result []repository.AssetsRow
	for pid, a := range f.assets {
		raw := f.rawOverride[pid]
		if raw == nil {
			raw, _ = json.Marshal(a.Images)
		}
		result = append(result, repository.AssetsRow{
			PropertiesAssetsID: a.PropertiesAssetsID,
			PropertieID:        a.PropertieID,
			RawImages:          raw,
			CoverImage:         a.CoverImage,
			UpdatedAt:          a.UpdatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PropertiesAssetsID < result[j].PropertiesAssetsID
	})
	return result, nil
}

func (f *fakeAssetsRepo) Update(_ context.Context, a *model.PropertyAssets) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for pid, existing := range f.assets {
		if existing.PropertiesAssetsID == a.PropertiesAssetsID {
			cp := *a
			f.assets[pid] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeAssetsRepo) DeleteByPropertyID(_ context.Context, propertieID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.assets, propertieID)
	return nil
}
