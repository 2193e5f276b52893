package model

import "time"

// 注文作成、支払い、ペットのステータス変更など。
type AuditAction string

const (
	AuditActionCreateOrder       AuditAction = "CREATE_ORDER"
	AuditActionCheckoutOrder     AuditAction = "CHECKOUT_ORDER"
	AuditActionCancelOrder       AuditAction = "CANCEL_ORDER"
	AuditActionChangePetStatus   AuditAction = "CHANGE_PET_STATUS"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreateOrder, AuditActionCheckoutOrder, AuditActionCancelOrder,
		AuditActionChangePetStatus, AuditActionUpdateOrderStatus:
		return true
	}
	return false
}

type AuditResourceType string

const (
	AuditResourcePet   AuditResourceType = "pet"
	AuditResourceOrder AuditResourceType = "order"
)

// 監査対象。ストアで記録するのは注文とペットだけ
type AuditResource struct {
	Type AuditResourceType
	ID   int64
}

func OrderResource(orderID int64) AuditResource {
	return AuditResource{Type: AuditResourceOrder, ID: orderID}
}

func PetResource(petID int64) AuditResource {
	return AuditResource{Type: AuditResourcePet, ID: petID}
}

// 監査ログ。誰がどの注文・ペットをどう変えたか。
type AuditLog struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID int64       `gorm:"not null;index" json:"actorUserId"`
	Action      AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(20);not null;index:idx_audit_resource" json:"resourceType"`
	ResourceID   int64             `gorm:"not null;index:idx_audit_resource" json:"resourceId"`

	//変更前後のステータスなど（JSON文字列）
	BeforeJSON string `gorm:"type:text" json:"beforeJson,omitempty"`
	AfterJSON  string `gorm:"type:text" json:"afterJson,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

func (l AuditLog) Resource() AuditResource {
	return AuditResource{Type: l.ResourceType, ID: l.ResourceID}
}
