package object

import (
	"math"

	"github.com/tomz197/typesurvivors/internal/draw"
)

// DefaultHitRadius is the distance at which an enemy reaches the player.
const DefaultHitRadius = 44.0

const (
	avatarSize     = 16.0 // Half-diagonal of the drawn diamond, in pixels
	alertFrequency = 6.0  // Hz
	alertDuration  = 0.5  // Seconds the ring keeps blinking after an alert
)

// User is the stationary player avatar at the centre of the viewport.
type User struct {
	X, Y      float64
	HitRadius float64

	spin       float64 // Rotation of the diamond in radians
	alertTimer float64
}

// NewUser creates the avatar at the given position.
func NewUser(x, y float64) *User {
	return &User{X: x, Y: y, HitRadius: DefaultHitRadius}
}

// MoveTo re-centres the avatar, e.g. after a resize.
func (u *User) MoveTo(x, y float64) {
	u.X = x
	u.Y = y
}

// Alert makes the hit ring blink for a short while.
func (u *User) Alert() {
	u.alertTimer = alertDuration
}

// Update advances the idle spin and the alert timer.
func (u *User) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()
	u.spin = math.Mod(u.spin+dt*1.5, 2*math.Pi)
	if u.alertTimer > 0 {
		u.alertTimer = max(0, u.alertTimer-dt)
	}
	return false, nil
}

// Draw draws a spinning diamond and, while alerted, the hit ring.
func (u *User) Draw(ctx DrawContext) error {
	points := ctx.Canvas.BorrowPoints(4)
	for i := range points {
		angle := u.spin + float64(i)*math.Pi/2
		points[i] = draw.Point{
			X: u.X + math.Cos(angle)*avatarSize,
			Y: u.Y + math.Sin(angle)*avatarSize,
		}
	}
	ctx.Canvas.DrawPolygon(points, draw.InkPlayer, true)

	if u.alertTimer > 0 && ShouldRenderBlink(u.alertTimer, alertFrequency) {
		ctx.Canvas.DrawCircle(u.X, u.Y, u.HitRadius, draw.InkDanger, false)
	}
	return nil
}
