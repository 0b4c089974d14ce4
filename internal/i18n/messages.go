package i18n

var messages = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":             "请求参数错误",
		"error.unauthorized":            "未登录或登录已失效",
		"error.forbidden":               "无权限访问",
		"error.jwt_secret_missing":      "服务端未配置 JWT 密钥",
		"error.auth_header_missing":     "缺少认证信息",
		"error.auth_header_invalid":     "认证格式错误",
		"error.token_invalid":           "无效的 token",
		"error.token_revoked":           "token 已失效，请重新登录",
		"error.admin_id_invalid":        "管理员 ID 无效",
		"error.admin_id_type_invalid":   "管理员 ID 类型错误",
		"error.admin_login_invalid":     "用户名或密码错误",
		"error.login_failed":            "登录失败",
		"error.admin_disabled":          "账号已停用",
		"error.captcha_required":        "请输入验证码",
		"error.captcha_invalid":         "验证码错误或已过期",
		"error.captcha_generate_failed": "验证码生成失败",
		"error.logout_failed":           "退出登录失败",
		"error.rate_limited":            "请求过于频繁，请 %d 秒后再试",
		"error.login_rate_limited":      "登录尝试过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":  "限流服务不可用",
		"error.draft_not_found":         "草稿不存在",
		"error.line_item_not_found":     "订单行不存在",
		"error.attribute_not_found":     "商品属性不存在",
		"error.product_not_found":       "商品不存在",
		"error.product_fetch_failed":    "获取商品失败",
		"error.catalog_payload_invalid": "商品数据不完整",
		"error.discount_code_required":  "请输入优惠码",
		"error.shipping_fee_invalid":    "运费不能为负数",
		"error.quantity_invalid":        "数量无效",
		"error.cart_empty":              "订单中没有商品",
		"error.customer_name_required":  "请填写客户姓名",
		"error.stale_result":            "草稿已关闭，操作结果已丢弃",
		"error.draft_submitting":        "草稿正在提交，请稍后再试",
		"error.order_submit_failed":     "下单失败，草稿已保留，请重试",
		"error.order_not_found":         "订单不存在",
		"error.order_fetch_failed":      "获取订单失败",
		"error.draft_flush_failed":      "草稿保存失败",
		"error.internal":                "服务内部错误",
	},
	LocaleEnUS: {
		"error.bad_request":             "Invalid request parameters",
		"error.unauthorized":            "Not signed in or session expired",
		"error.forbidden":               "Access denied",
		"error.jwt_secret_missing":      "JWT secret is not configured",
		"error.auth_header_missing":     "Missing authorization header",
		"error.auth_header_invalid":     "Malformed authorization header",
		"error.token_invalid":           "Invalid token",
		"error.token_revoked":           "Token revoked, please sign in again",
		"error.admin_id_invalid":        "Invalid admin id",
		"error.admin_id_type_invalid":   "Admin id has an unexpected type",
		"error.admin_login_invalid":     "Incorrect username or password",
		"error.login_failed":            "Login failed",
		"error.admin_disabled":          "Account disabled",
		"error.captcha_required":        "Captcha is required",
		"error.captcha_invalid":         "Captcha is wrong or expired",
		"error.captcha_generate_failed": "Failed to generate captcha",
		"error.logout_failed":           "Failed to sign out",
		"error.rate_limited":            "Too many requests, retry in %d seconds",
		"error.login_rate_limited":      "Too many login attempts, retry in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.draft_not_found":         "Draft not found",
		"error.line_item_not_found":     "Line item not found",
		"error.attribute_not_found":     "Attribute not found",
		"error.product_not_found":       "Product not found",
		"error.product_fetch_failed":    "Failed to fetch product",
		"error.catalog_payload_invalid": "Product data is incomplete",
		"error.discount_code_required":  "Discount code is required",
		"error.shipping_fee_invalid":    "Shipping fee cannot be negative",
		"error.quantity_invalid":        "Invalid quantity",
		"error.cart_empty":              "The order has no items",
		"error.customer_name_required":  "Customer name is required",
		"error.stale_result":            "Draft was closed, result discarded",
		"error.draft_submitting":        "Draft is being submitted, try again later",
		"error.order_submit_failed":     "Order submission failed, draft kept for retry",
		"error.order_not_found":         "Order not found",
		"error.order_fetch_failed":      "Failed to fetch order",
		"error.draft_flush_failed":      "Failed to save drafts",
		"error.internal":                "Internal server error",
	},
}
