// pkg/render/engo/assets.go
package engo

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/logging"
)

// Breaker settings for sprite loading
const (
	assetBreakerMaxFailures = 3
	assetBreakerTimeout     = 30 * time.Second
)

// TextureFunc turns a generated image into a drawable. The default uploads
// the image to the GPU and needs a live GL context.
type TextureFunc func(img *image.NRGBA) common.Drawable

// FileLoader loads a sprite file relative to the asset directory
type FileLoader func(name string) (common.Drawable, error)

// AssetManager hands out ship sprites. Sprite files are optional: loading
// goes through a circuit breaker and falls back to generated shapes.
type AssetManager struct {
	dir     string
	sprites map[entity.PlayerType]common.Drawable
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger

	loadFile   FileLoader
	newTexture TextureFunc
}

// NewAssetManager creates an asset manager reading from dir
func NewAssetManager(dir string, logger *logging.Logger) *AssetManager {
	if logger == nil {
		logger = logging.Discard()
	}
	am := &AssetManager{
		dir:        dir,
		sprites:    make(map[entity.PlayerType]common.Drawable),
		logger:     logger,
		loadFile:   loadSpriteFile,
		newTexture: uploadTexture,
	}
	am.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "morph-assets",
		Timeout: assetBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= assetBreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return am
}

// Preload points engo's file loader at the asset directory
func (am *AssetManager) Preload() {
	if am.dir != "" {
		engo.Files.SetRoot(am.dir)
	}
}

// ShipSprite returns the sprite for ships of player type t, loading or
// generating it on first use
func (am *AssetManager) ShipSprite(t entity.PlayerType) common.Drawable {
	if sprite, ok := am.sprites[t]; ok {
		return sprite
	}

	sprite, err := am.load(shipSpriteFile(t))
	if err != nil {
		am.logger.Warn(context.Background(), "ship sprite unavailable, using generated shape",
			"player_type", t.String(),
			"error", err.Error(),
		)
		sprite = am.newTexture(ShipImage(16))
	}
	am.sprites[t] = sprite
	return sprite
}

func (am *AssetManager) load(name string) (common.Drawable, error) {
	result, err := am.breaker.Execute(func() (interface{}, error) {
		return am.loadFile(name)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return result.(common.Drawable), nil
}

// Font loads a TrueType font from the asset directory, or returns nil
func (am *AssetManager) Font(name string, size float64) *common.Font {
	result, err := am.breaker.Execute(func() (interface{}, error) {
		if err := engo.Files.Load(name); err != nil {
			return nil, err
		}
		font := &common.Font{URL: name, FG: color.White, Size: size}
		if err := font.CreatePreloaded(); err != nil {
			return nil, err
		}
		return font, nil
	})
	if err != nil {
		am.logger.Warn(context.Background(), "HUD font unavailable", "font", name, "error", err.Error())
		return nil
	}
	return result.(*common.Font)
}

// State reports the state of the loading circuit breaker
func (am *AssetManager) State() gobreaker.State {
	return am.breaker.State()
}

func shipSpriteFile(t entity.PlayerType) string {
	return "ship_" + t.String() + ".png"
}

// ShipImage draws a white arrowhead pointing up on a size x size canvas.
// Ships are tinted per player by their render component colour.
func ShipImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		// row width grows linearly from the nose, the last quarter is notched
		width := half * float64(y+1) / float64(size)
		notch := 0.0
		if y >= size*3/4 {
			notch = half * float64(y-size*3/4+1) / float64(size)
		}
		for x := 0; x < size; x++ {
			d := float64(x) + 0.5 - half
			if d < 0 {
				d = -d
			}
			if d <= width && d >= notch {
				img.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return img
}

func loadSpriteFile(name string) (common.Drawable, error) {
	if err := engo.Files.Load(name); err != nil {
		return nil, err
	}
	tex, err := common.LoadedSprite(name)
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func uploadTexture(img *image.NRGBA) common.Drawable {
	return common.NewTextureSingle(common.NewImageObject(img))
}
