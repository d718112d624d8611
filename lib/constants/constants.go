package constants

const (
	SSM_PARAMETER_PATH   = "/sitedash"
	ALLOWED_ORIGINS      = "/sitedash/ALLOWED_ORIGINS"
	API_BASE_URL         = "/sitedash/API_BASE_URL"
	API_TIMEOUT_SECONDS  = "/sitedash/API_TIMEOUT_SECONDS"
	FETCH_CONCURRENCY    = "/sitedash/FETCH_CONCURRENCY"
	DOCUMENTS_BUCKET     = "/sitedash/DOCUMENTS_BUCKET"
	COGNITO_USER_POOL_ID = "/sitedash/COGNITO_USER_POOL_ID"
	DATABASE_ENDPOINT    = "/sitedash/DATABASE_ENDPOINT"
	DATABASE_PORT        = "/sitedash/DATABASE_PORT"
	DATABASE_NAME        = "/sitedash/DATABASE_NAME"
	DATABASE_USERNAME    = "/sitedash/DATABASE_USERNAME"
	DATABASE_PASSWORD    = "/sitedash/DATABASE_PASSWORD"
	SSL_MODE             = "/sitedash/SSL_MODE"
	DRIVER_NAME          = "postgres"
	AWS_REGION           = "us-east-2"
	LOCALSTACK_ENDPOINT  = "http://docker.for.mac.host.internal:4566"
)

// REST collection paths on the upstream construction API
const (
	PathProjects         = "/projects/"
	PathBudgets          = "/budgets/"
	PathExpenses         = "/expenses/"
	PathDocuments        = "/documents/"
	PathMaterialRequests = "/material-requests/"
	PathUsers            = "/users/"
	PathInspections      = "/inspections/"
	PathIncidents        = "/incidents/"
	PathPurchaseOrders   = "/purchase-orders/"
	PathVendors          = "/vendors/"
	PathTasks            = "/tasks/"
)

// Resource names used as batch keys
const (
	ResourceProjects         = "projects"
	ResourceProject          = "project"
	ResourceBudgets          = "budgets"
	ResourceExpenses         = "expenses"
	ResourceDocuments        = "documents"
	ResourceMaterialRequests = "material_requests"
	ResourceUsers            = "users"
	ResourceInspections      = "inspections"
	ResourceIncidents        = "incidents"
	ResourcePurchaseOrders   = "purchase_orders"
	ResourceVendors          = "vendors"
	ResourceTasks            = "tasks"
)

// Session store keys
const (
	SessionItemUser = "user"
)
