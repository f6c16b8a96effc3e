package redisstore

// Storage key names, each prefixed per visitor by visitorKey.
const (
	CartKey         = "cart-storage"
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	UserIDKey       = "user_id"
	UserEmailKey    = "user_email"
	UserNameKey     = "user_name"
	UserRoleKey     = "user_role"
)

func visitorKey(visitorID, name string) string {
	return "storefront:visitor:" + visitorID + ":" + name
}

const productListKey = "storefront:cache:products"
