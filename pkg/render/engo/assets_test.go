// pkg/render/engo/assets_test.go
package engo

import (
	"errors"
	"testing"

	"github.com/EngoEngine/engo/common"
	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-morph/pkg/entity"
)

func TestNewAssetManager(t *testing.T) {
	am := NewAssetManager("assets", nil)

	if am.dir != "assets" {
		t.Errorf("Expected dir %q, got %q", "assets", am.dir)
	}
	if am.sprites == nil {
		t.Error("Expected sprites map to be initialized")
	}
	if am.logger == nil {
		t.Error("Expected a discard logger when none is given")
	}
	if am.State() != gobreaker.StateClosed {
		t.Errorf("Expected a closed breaker, got %s", am.State())
	}
}

func TestAssetManager_ShipSpriteFallsBack(t *testing.T) {
	am, textures := offlineAssets()

	sprite := am.ShipSprite(entity.Self)
	if sprite == nil {
		t.Fatal("Expected a generated sprite when the file is missing")
	}
	if *textures != 1 {
		t.Errorf("Expected 1 generated texture, got %d", *textures)
	}

	// cached per player type
	am.ShipSprite(entity.Self)
	if *textures != 1 {
		t.Errorf("Expected the sprite to be cached, got %d textures", *textures)
	}
	am.ShipSprite(entity.AI)
	if *textures != 2 {
		t.Errorf("Expected a second texture for another player type, got %d", *textures)
	}
}

func TestAssetManager_ShipSpriteFromFile(t *testing.T) {
	am, textures := offlineAssets()
	var requested []string
	am.loadFile = func(name string) (common.Drawable, error) {
		requested = append(requested, name)
		return common.Rectangle{}, nil
	}

	sprite := am.ShipSprite(entity.AI)
	if _, ok := sprite.(common.Rectangle); !ok {
		t.Errorf("Expected the loaded sprite, got %T", sprite)
	}
	if *textures != 0 {
		t.Errorf("Expected no generated texture, got %d", *textures)
	}
	if len(requested) != 1 || requested[0] != "ship_AI.png" {
		t.Errorf("Expected ship_AI.png to be requested, got %v", requested)
	}
}

func TestAssetManager_BreakerOpensAfterFailures(t *testing.T) {
	am, _ := offlineAssets()
	calls := 0
	am.loadFile = func(string) (common.Drawable, error) {
		calls++
		return nil, errors.New("disk on fire")
	}

	for i := 0; i < assetBreakerMaxFailures; i++ {
		if _, err := am.load("missing.png"); err == nil {
			t.Fatalf("load %d: expected an error", i)
		}
	}
	if am.State() != gobreaker.StateOpen {
		t.Fatalf("Expected an open breaker after %d failures, got %s", assetBreakerMaxFailures, am.State())
	}

	_, err := am.load("missing.png")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if calls != assetBreakerMaxFailures {
		t.Errorf("Expected the open breaker to skip the loader, got %d calls", calls)
	}
}

func TestShipImage(t *testing.T) {
	img := ShipImage(16)

	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("Expected a 16x16 image, got %v", b)
	}

	tests := []struct {
		name   string
		x, y   int
		filled bool
	}{
		{"nose", 7, 0, true},
		{"nose right", 8, 0, true},
		{"top corner", 0, 0, false},
		{"wing tip", 3, 15, true},
		{"notch", 7, 15, false},
		{"mid body", 8, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled := img.NRGBAAt(tt.x, tt.y).A != 0
			if filled != tt.filled {
				t.Errorf("pixel (%d, %d) filled = %v, want %v", tt.x, tt.y, filled, tt.filled)
			}
		})
	}
}
