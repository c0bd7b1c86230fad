package dashboard

import (
	"net/http"
	"time"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type Account struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	Role      users.Role `json:"role"`
	PromoCode string     `json:"promo_code,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toAccount(u users.User) Account {
	return Account{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Role:      u.Role,
		PromoCode: u.PromoCode,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.scoped(c).ListUsers(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	accounts := make([]Account, 0, len(list))
	perRole := map[users.Role]int{}
	for _, u := range list {
		accounts = append(accounts, toAccount(u))
		perRole[u.Role]++
	}
	c.JSON(http.StatusOK, gin.H{
		"users":    accounts,
		"total":    len(accounts),
		"per_role": perRole,
	})
}
