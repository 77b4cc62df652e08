package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных консоли в Redis
	RedisNamespace = "threatconsole"
)

// StoreKeyAPIKey Имя единственного слота хранилища ключа.
// Совпадает с ключом localStorage браузерной версии консоли.
const StoreKeyAPIKey = "admin_api_key"

// RedisStoreKey Генератор ключей хранилища в пределах namespace
func RedisStoreKey(namespace, name string) string {
	if namespace == "" {
		namespace = RedisNamespace
	}
	return fmt.Sprintf("%s:%s", namespace, name)
}
