package application

import "math"

// Vector2 は2次元の値型ベクトルです。
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vector2) Scale(s float64) Vector2 { return Vector2{X: v.X * s, Y: v.Y * s} }

func (v Vector2) Magnitude() float64 { return math.Hypot(v.X, v.Y) }

// Normalize は単位ベクトルを返します。長さ0のベクトルは0ベクトルのまま返します。
func (v Vector2) Normalize() Vector2 {
	m := v.Magnitude()
	if m == 0 {
		return Vector2{}
	}
	return Vector2{X: v.X / m, Y: v.Y / m}
}

func (v Vector2) Distance(o Vector2) float64 { return v.Sub(o).Magnitude() }

func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Rotate はラジアンで反時計回りに回転させます。
func (v Vector2) Rotate(rad float64) Vector2 {
	sin, cos := math.Sincos(rad)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Angle は2ベクトル間の角度(ラジアン, 0..π)を返します。
func (v Vector2) Angle(o Vector2) float64 {
	a, b := v.Normalize(), o.Normalize()
	dot := a.X*b.X + a.Y*b.Y
	return math.Acos(max(-1, min(1, dot)))
}
