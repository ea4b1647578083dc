package i18n

// Entity names a resource in action messages
type Entity string

const (
	EntityAccountCategory Entity = "account_category"
	EntityAccount         Entity = "account"
	EntityFinancialYear   Entity = "financial_year"
	EntityJournalEntry    Entity = "journal_entry"
	EntityProduct         Entity = "product"
	EntityWarehouse       Entity = "warehouse"
	EntityStock           Entity = "stock"
	EntityCompanySetting  Entity = "company_setting"
	EntityTaxSetting      Entity = "tax_setting"
	EntityUser            Entity = "user"
	EntityDepartment      Entity = "department"
	EntityDesignation     Entity = "designation"
	EntityEmployee        Entity = "employee"
	EntityLogo            Entity = "logo"
)

// Action is a mutation outcome
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionActivated     Action = "activated"
	ActionDeactivated   Action = "deactivated"
	ActionPosted        Action = "posted"
	ActionReceived      Action = "received"
	ActionIssued        Action = "issued"
	ActionAdjusted      Action = "adjusted"
	ActionTransferred   Action = "transferred"
	ActionStatusChanged Action = "status_changed"
)

// Standalone message keys
const (
	MsgLoggedIn       = "auth.logged_in"
	MsgLoggedOut      = "auth.logged_out"
	MsgTokenRefreshed = "auth.token_refreshed"
	MsgUploadReady    = "upload.ready"
)

type translation struct {
	bn string
	en string
}

var messages = map[string]translation{
	"entity.account_category": {"হিসাবের শ্রেণি", "Account category"},
	"entity.account":          {"হিসাব", "Account"},
	"entity.financial_year":   {"অর্থবছর", "Financial year"},
	"entity.journal_entry":    {"জার্নাল এন্ট্রি", "Journal entry"},
	"entity.product":          {"পণ্য", "Product"},
	"entity.warehouse":        {"গুদাম", "Warehouse"},
	"entity.stock":            {"মজুদ", "Stock"},
	"entity.company_setting":  {"প্রতিষ্ঠানের তথ্য", "Company settings"},
	"entity.tax_setting":      {"কর সেটিং", "Tax setting"},
	"entity.user":             {"ব্যবহারকারী", "User"},
	"entity.department":       {"বিভাগ", "Department"},
	"entity.designation":      {"পদবি", "Designation"},
	"entity.employee":         {"কর্মচারী", "Employee"},
	"entity.logo":             {"লোগো", "Logo"},

	"action.created":        {"%s সফলভাবে তৈরি হয়েছে", "%s created successfully"},
	"action.updated":        {"%s সফলভাবে হালনাগাদ হয়েছে", "%s updated successfully"},
	"action.deleted":        {"%s সফলভাবে মুছে ফেলা হয়েছে", "%s deleted successfully"},
	"action.activated":      {"%s সক্রিয় করা হয়েছে", "%s activated"},
	"action.deactivated":    {"%s নিষ্ক্রিয় করা হয়েছে", "%s deactivated"},
	"action.posted":         {"%s পোস্ট করা হয়েছে", "%s posted"},
	"action.received":       {"%s গ্রহণ করা হয়েছে", "%s received"},
	"action.issued":         {"%s প্রদান করা হয়েছে", "%s issued"},
	"action.adjusted":       {"%s সমন্বয় করা হয়েছে", "%s adjusted"},
	"action.transferred":    {"%s স্থানান্তর সম্পন্ন হয়েছে", "%s transferred successfully"},
	"action.status_changed": {"%s এর অবস্থা পরিবর্তন হয়েছে", "%s status changed"},

	"auth.logged_in":       {"সফলভাবে লগইন হয়েছে", "Logged in successfully"},
	"auth.logged_out":      {"সফলভাবে লগআউট হয়েছে", "Logged out successfully"},
	"auth.token_refreshed": {"টোকেন নবায়ন হয়েছে", "Token refreshed"},
	"upload.ready":         {"আপলোডের লিংক তৈরি হয়েছে", "Upload URL generated"},

	"error.VALIDATION_ERROR":       {"প্রদত্ত তথ্য সঠিক নয়", "The submitted data is invalid"},
	"error.INTERNAL_ERROR":         {"একটি অপ্রত্যাশিত ত্রুটি ঘটেছে", "An unexpected error occurred"},
	"error.NOT_FOUND":              {"তথ্য পাওয়া যায়নি", "Resource not found"},
	"error.UNAUTHORIZED":           {"প্রমাণীকরণ প্রয়োজন", "Authentication required"},
	"error.FORBIDDEN":              {"এই কাজের অনুমতি নেই", "You do not have permission to perform this action"},
	"error.INVALID_CREDENTIALS":    {"ইমেইল বা পাসওয়ার্ড সঠিক নয়", "Invalid email or password"},
	"error.ACCOUNT_INACTIVE":       {"অ্যাকাউন্টটি নিষ্ক্রিয়", "Account is inactive"},
	"error.INSUFFICIENT_STOCK":     {"পর্যাপ্ত মজুদ নেই", "Insufficient stock"},
	"error.FINANCIAL_YEAR_OVERLAP": {"অর্থবছরের সময়সীমা অন্য অর্থবছরের সাথে মিলে যায়", "Financial year overlaps an existing financial year"},
	"error.CANNOT_DEACTIVATE_SELF": {"নিজের অ্যাকাউন্ট নিষ্ক্রিয় করা যাবে না", "You cannot deactivate your own account"},
	"error.CANNOT_DELETE_SELF":     {"নিজের অ্যাকাউন্ট মুছে ফেলা যাবে না", "You cannot delete your own account"},
	"error.CATEGORY_HAS_ACCOUNTS":  {"এই শ্রেণির অধীনে হিসাব থাকায় মুছে ফেলা যাবে না", "Category has accounts and cannot be deleted"},
	"error.RATE_LIMITED":           {"অনেক বেশি অনুরোধ, কিছুক্ষণ পর চেষ্টা করুন", "Too many requests, please try again later"},
	"error.DUPLICATE_REQUEST":      {"এই অনুরোধটি ইতিমধ্যে সম্পন্ন হয়েছে", "This request has already been processed"},

	"account_type.asset":     {"সম্পদ", "Asset"},
	"account_type.liability": {"দায়", "Liability"},
	"account_type.equity":    {"মালিকানা স্বত্ব", "Equity"},
	"account_type.revenue":   {"আয়", "Revenue"},
	"account_type.expense":   {"ব্যয়", "Expense"},

	"normal_side.debit":  {"ডেবিট", "Debit"},
	"normal_side.credit": {"ক্রেডিট", "Credit"},

	"role.admin":      {"প্রশাসক", "Administrator"},
	"role.accountant": {"হিসাবরক্ষক", "Accountant"},
	"role.manager":    {"ব্যবস্থাপক", "Manager"},
	"role.user":       {"ব্যবহারকারী", "User"},

	"movement_type.purchase":       {"ক্রয়", "Purchase"},
	"movement_type.sale":           {"বিক্রয়", "Sale"},
	"movement_type.transfer_in":    {"স্থানান্তর (আগত)", "Transfer in"},
	"movement_type.transfer_out":   {"স্থানান্তর (বহির্গামী)", "Transfer out"},
	"movement_type.adjustment_in":  {"সমন্বয় (বৃদ্ধি)", "Adjustment in"},
	"movement_type.adjustment_out": {"সমন্বয় (হ্রাস)", "Adjustment out"},
}
