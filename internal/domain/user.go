package domain

import "time"

// UserRole роль пользователя
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User реестр пользователей для прав доступа и fan-out уведомлений.
// ProviderUID — идентификатор во внешнем identity provider: клиент может
// подписаться на live-канал под любым из двух идентификаторов, поэтому
// relay публикует по всем известным алиасам.
type User struct {
	ID          int64
	ProviderUID string
	Role        UserRole
	CreatedAt   time.Time
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ChannelAliases возвращает все идентификаторы, под которыми пользователь
// может слушать свой канал уведомлений
func (u *User) ChannelAliases() []string {
	aliases := []string{int64Key(u.ID)}
	if u.ProviderUID != "" && u.ProviderUID != aliases[0] {
		aliases = append(aliases, u.ProviderUID)
	}
	return aliases
}
