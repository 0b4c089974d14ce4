package constants

// 订单状态常量
const (
	OrderStatusSubmitted  = "submitted"
	OrderStatusProcessing = "processing"
)

// 折扣类型常量
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// 草稿存储驱动常量
const (
	DraftStorageDatabase = "database"
	DraftStorageRedis    = "redis"
	DraftStorageMemory   = "memory"
)

// 草稿槽位默认前缀
const (
	DraftSlotPrefixDefault = "order-composer-drafts"
)

// 队列常量
const (
	QueueDefault       = "default"
	TaskOrderSubmitted = "order:submitted"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "od"
)

// 管理员角色常量
const (
	RoleCashier         = "cashier"
	RoleReadonlyAuditor = "readonly_auditor"
)

// 货币默认配置
const (
	CurrencyDefault = "VND"
)
