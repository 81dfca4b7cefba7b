package main

import (
	"github.com/15mga/sigecs/util"
)

type Transform struct {
	Position util.Vec2
	Scale    util.Vec2
	Rotation float64
}

func DefTransform() Transform {
	return Transform{
		Scale: util.Vec2{X: 1, Y: 1},
	}
}

type RigidBody struct {
	Velocity util.Vec2
}

type Rect struct {
	X, Y, W, H int
}

type Sprite struct {
	AssetId string `mapstructure:"asset_id"`
	Width   int
	Height  int
	Src     Rect
}
