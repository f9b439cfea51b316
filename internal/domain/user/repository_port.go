// internal/domain/user/repository_port.go
package user

import "context"

// 契約（インターフェース）のみを定義します。
// エンティティ User は同パッケージの entity.go を参照してください。

// Repository is the read-only persistence port for user profiles.
// Profile writes happen on the client app; the backend only resolves
// display names for denormalization.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
}
