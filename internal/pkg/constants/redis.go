package constants

// Redis key formats
const (
	KeyUserCache = "notify:user:%s" // Format: notify:user:{user_id}
)
