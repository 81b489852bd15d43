// app/echoServer/jwtx/user.go
package jwtx

import (
	"github.com/labstack/echo/v4"

	"campusbooks/model"
)

// ActorFromContext reads the identity the JWT middleware stored on the
// request. Services re-check role and ownership themselves; this only
// carries who is calling.
func ActorFromContext(c echo.Context) model.Actor {
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	return model.Actor{ID: uid, Role: model.Role(role)}
}
