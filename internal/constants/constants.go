package constants

const (
	APP_CART_SERVICE         = "cart-service"
	APP_NOTIFICATION_SERVICE = "notification-service"
	APP_ORDER_SERVICE        = "order-service"
	APP_PRODUCT_SERVICE      = "product-service"
	APP_MAIN_BAKERY          = "main bakery"
	AUDIENCE_USER            = "audience-user"
	ISSUER_AUTH              = "auth-service"
)

const (
	CHANNEL_ORDER_CREATED = "order-created"
)

const (
	KEY_APP_NAME             = "app"
	KEY_AUTH_TOKEN           = "authToken"
	KEY_BODY                 = "body"
	KEY_CACHE_KEY            = "cacheKey"
	KEY_CART                 = "cart"
	KEY_CART_ITEM            = "cartItem"
	KEY_CART_ITEMS           = "cartItems"
	KEY_CART_OPEN            = "cartOpen"
	KEY_CART_ITEM_QUANTITY   = "cartItemQuantity"
	KEY_CART_TOTAL           = "cartTotal"
	KEY_CHANNEL              = "channel"
	KEY_CHECKOUT_PROGRESS    = "checkoutProgress"
	KEY_CONFIG               = "config"
	KEY_CUSTOMIZATION        = "customization"
	KEY_DB_URL               = "dbUrl"
	KEY_EMAIL                = "email"
	KEY_HEADER               = "header"
	KEY_JSON_CACHE           = "jsonCache"
	KEY_MAIL_SUBJECT         = "mailSubject"
	KEY_MESSAGE              = "message"
	KEY_ORDER                = "order"
	KEY_ORDER_ID             = "orderId"
	KEY_ORDER_ITEMS          = "orderItems"
	KEY_ORDER_STATUS         = "orderStatus"
	KEY_ORDER_TOTAL          = "orderTotal"
	KEY_PATH_VALUES          = "pathValues"
	KEY_PROCESS              = "process"
	KEY_PRODUCT              = "product"
	KEY_PRODUCT_ID           = "productId"
	KEY_REQUEST              = "request"
	KEY_REQUEST_BODY         = "requestBody"
	KEY_REQUEST_HEADER       = "requestHeader"
	KEY_REQUEST_HOST         = "host"
	KEY_REQUEST_ID           = "requestId"
	KEY_REQUEST_IP           = "requesterIP"
	KEY_REQUEST_METHOD       = "requestMethod"
	KEY_REQUEST_URI          = "requestURI"
	KEY_REQUEST_URL          = "requestURL"
	KEY_SESSION_ID           = "sessionId"
	KEY_SPAN_ID              = "spanId"
	KEY_TAG                  = "tag"
	KEY_TOTAL_PRICE          = "totalPrice"
	KEY_TRACE_ID             = "traceId"
	KEY_USER_ID              = "userId"
	KEY_VARIANT_ID           = "variantId"
)
