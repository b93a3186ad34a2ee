package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/propidesk/listings-module/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedProperty добавляет объект в fake-репозиторий со смещённым created_at.
func seedProperty(f *fakePropertyRepo, title string, age time.Duration) *model.Property {
	p := &model.Property{
		Title:     title,
		Category:  model.CategoryNaves,
		Operation: model.OperationSale,
		Location:  "Querétaro",
		Currency:  model.CurrencyMXN,
	}
	_ = f.Create(context.Background(), p)
	f.props[p.PropertieID].CreatedAt = time.Now().UTC().Add(-age)
	return p
}

// TestCatalogFetchAll_Join: соединение properties и properties_assets
// по propertie_id, новые объекты первыми.
func TestCatalogFetchAll_Join(t *testing.T) {
	propRepo := newFakePropertyRepo()
	assetsRepo := newFakeAssetsRepo()
	svc := NewCatalogService(propRepo, assetsRepo, testLogger())

	older := seedProperty(propRepo, "Старый объект", 2*time.Hour)
	newer := seedProperty(propRepo, "Новый объект", time.Hour)

	cover := "https://cdn.example.com/cover.jpg"
	_ = assetsRepo.Create(context.Background(), &model.PropertyAssets{
		PropertieID: newer.PropertieID,
		Images: model.ImageSet{
			"1": "https://cdn.example.com/cover.jpg",
			"2": "https://cdn.example.com/2.jpg",
		},
		CoverImage: &cover,
	})

	cards, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() ошибка: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("FetchAll() вернул %d карточек, хотели 2", len(cards))
	}

	// Новые первыми
	if cards[0].PropertieID != newer.PropertieID {
		t.Errorf("Первая карточка id=%d, хотели %d", cards[0].PropertieID, newer.PropertieID)
	}

	// Карточка с изображениями
	if cards[0].Cover != cover {
		t.Errorf("Cover = %q, хотели %q", cards[0].Cover, cover)
	}
	if len(cards[0].Images) != 2 {
		t.Errorf("Images = %v, хотели 2 элемента", cards[0].Images)
	}

	// Карточка без изображений — placeholder
	if cards[1].PropertieID != older.PropertieID {
		t.Fatalf("Вторая карточка id=%d", cards[1].PropertieID)
	}
	if cards[1].Cover != model.PlaceholderImage {
		t.Errorf("Cover без изображений = %q, хотели %q", cards[1].Cover, model.PlaceholderImage)
	}
	if len(cards[1].Images) != 0 {
		t.Errorf("Images без записи assets = %v, хотели пусто", cards[1].Images)
	}
}

// TestCatalogFetchAll_CoverFallback: цепочка обложки
// assets.cover_image → properties.cover_image → placeholder.
func TestCatalogFetchAll_CoverFallback(t *testing.T) {
	propRepo := newFakePropertyRepo()
	assetsRepo := newFakeAssetsRepo()
	svc := NewCatalogService(propRepo, assetsRepo, testLogger())

	legacy := "https://cdn.example.com/legacy.jpg"
	p := seedProperty(propRepo, "С историческим cover", time.Hour)
	propRepo.props[p.PropertieID].CoverImage = &legacy

	// Запись assets без обложки
	_ = assetsRepo.Create(context.Background(), &model.PropertyAssets{
		PropertieID: p.PropertieID,
		Images:      model.ImageSet{"1": "https://cdn.example.com/1.jpg"},
	})

	cards, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() ошибка: %v", err)
	}
	if cards[0].Cover != legacy {
		t.Errorf("Cover = %q, хотели историческое поле %q", cards[0].Cover, legacy)
	}
	// Обложка открывает список, если её там нет
	if len(cards[0].Images) != 2 || cards[0].Images[0] != legacy {
		t.Errorf("Images = %v, хотели обложку первой", cards[0].Images)
	}
}

// TestCatalogFetchAll_DegradedRecord: неразборная колонка images
// деградирует запись, но не прерывает выборку.
func TestCatalogFetchAll_DegradedRecord(t *testing.T) {
	propRepo := newFakePropertyRepo()
	assetsRepo := newFakeAssetsRepo()
	svc := NewCatalogService(propRepo, assetsRepo, testLogger())

	good := seedProperty(propRepo, "Нормальный", time.Hour)
	bad := seedProperty(propRepo, "Повреждённый", 2*time.Hour)

	_ = assetsRepo.Create(context.Background(), &model.PropertyAssets{
		PropertieID: good.PropertieID,
		Images:      model.ImageSet{"1": "https://cdn.example.com/1.jpg"},
	})
	_ = assetsRepo.Create(context.Background(), &model.PropertyAssets{
		PropertieID: bad.PropertieID,
	})
	assetsRepo.rawOverride[bad.PropertieID] = []byte(`42`)

	cards, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() ошибка: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("FetchAll() вернул %d карточек, хотели 2", len(cards))
	}

	for _, c := range cards {
		switch c.PropertieID {
		case good.PropertieID:
			if len(c.Images) != 1 {
				t.Errorf("Нормальная запись: Images = %v", c.Images)
			}
		case bad.PropertieID:
			if len(c.Images) != 0 {
				t.Errorf("Деградировавшая запись: Images = %v, хотели пусто", c.Images)
			}
			if c.Cover != model.PlaceholderImage {
				t.Errorf("Деградировавшая запись: Cover = %q", c.Cover)
			}
		}
	}
}

// TestCatalogFetchAll_FailFast: ошибка любого из двух запросов
// прерывает выборку целиком — частичный результат не отдаётся.
func TestCatalogFetchAll_FailFast(t *testing.T) {
	dbErr := errors.New("соединение разорвано")

	t.Run("Ошибка выборки properties", func(t *testing.T) {
		propRepo := newFakePropertyRepo()
		propRepo.listAllErr = dbErr
		svc := NewCatalogService(propRepo, newFakeAssetsRepo(), testLogger())

		cards, err := svc.FetchAll(context.Background())
		if err == nil {
			t.Fatal("FetchAll() не вернул ошибку")
		}
		if cards != nil {
			t.Errorf("FetchAll() вернул карточки при ошибке: %v", cards)
		}
	})

	t.Run("Ошибка выборки assets при успешных properties", func(t *testing.T) {
		propRepo := newFakePropertyRepo()
		seedProperty(propRepo, "Объект", time.Hour)
		assetsRepo := newFakeAssetsRepo()
		assetsRepo.listAllErr = dbErr
		svc := NewCatalogService(propRepo, assetsRepo, testLogger())

		cards, err := svc.FetchAll(context.Background())
		if err == nil {
			t.Fatal("FetchAll() не вернул ошибку при частичном успехе")
		}
		if !errors.Is(err, dbErr) {
			t.Errorf("Ошибка не обёрнута: %v", err)
		}
		if cards != nil {
			t.Errorf("Частичный результат отдан: %v", cards)
		}
	})
}

// TestCatalogGet: одна карточка с изображениями; ErrNotFound для
// несуществующего объекта.
func TestCatalogGet(t *testing.T) {
	propRepo := newFakePropertyRepo()
	assetsRepo := newFakeAssetsRepo()
	svc := NewCatalogService(propRepo, assetsRepo, testLogger())

	p := seedProperty(propRepo, "Объект", time.Hour)
	cover := "https://cdn.example.com/1.jpg"
	_ = assetsRepo.Create(context.Background(), &model.PropertyAssets{
		PropertieID: p.PropertieID,
		Images:      model.ImageSet{"1": cover},
		CoverImage:  &cover,
	})

	got, err := svc.Get(context.Background(), p.PropertieID)
	if err != nil {
		t.Fatalf("Get() ошибка: %v", err)
	}
	if got.Cover != cover || len(got.Images) != 1 {
		t.Errorf("Get(): Cover=%q, Images=%v", got.Cover, got.Images)
	}

	_, err = svc.Get(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(9999) = %v, хотели ErrNotFound", err)
	}
}
