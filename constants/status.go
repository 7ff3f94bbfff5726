package constants

// User status
const (
	UserStatusActive   = 1
	UserStatusInactive = 0
)

// Booking status
const (
	BookingStatusPending                   = 0
	BookingStatusOnHold                    = 1
	BookingStatusPendingApproval           = 2
	BookingStatusConfirmed                 = 3
	BookingStatusApprovedPaymentPending    = 4
	BookingStatusApprovedPaymentProcessing = 5
	BookingStatusCheckedIn                 = 6
	BookingStatusCompleted                 = 7
	BookingStatusCancelled                 = 8
	BookingStatusRejected                  = 9
)

// Room status
const (
	RoomStatusAvailable    = 1
	RoomStatusBooked       = 2
	RoomStatusMaintenance  = 3
	RoomStatusCleaning     = 4
	RoomStatusOutOfService = 5
)

// Invoice status
const (
	InvoiceStatusDraft            = 0
	InvoiceStatusSent             = 1
	InvoiceStatusAwaitingApproval = 2
	InvoiceStatusPaid             = 3
	InvoiceStatusFailed           = 4
	InvoiceStatusCancelled        = 5
	InvoiceStatusOverdue          = 6
)

// Invoice kind
const (
	InvoiceKindPrimary  = 0
	InvoiceKindOverstay = 1
)

// User role
const (
	RoleGuest        = 0
	RoleReceptionist = 1
	RoleAdmin        = 2
)

// Payment method
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodBank = "bank"
)

// Housekeeping task status
const (
	TaskStatusPending   = 0
	TaskStatusCompleted = 1
	TaskStatusCancelled = 2
)

// Housekeeping task priority
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Hệ số phụ thu khi khách ở quá hạn (1.5 lần giá phòng cơ bản)
const OverstayRateMultiplier = 1.5

// CancelledBySystem đánh dấu các booking bị hủy bởi scheduler
const CancelledBySystem = "system"
