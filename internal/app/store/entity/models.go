package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RelationPolicy описывает, что происходит с дочерними записями
// при удалении родителя. Каждая связь объявляет свою политику явно -
// операции удаления выполняют соответствующий шаг сами, а не полагаются
// на каскады, скрытые в схеме.
type RelationPolicy int

const (
	// RelationCascadeDelete удаляет дочерние записи вместе с родителем
	RelationCascadeDelete RelationPolicy = iota
	// RelationUnlink обнуляет ссылку на родителя, дочерние записи остаются
	RelationUnlink
	// RelationRestrict запрещает удаление родителя, пока есть дочерние записи
	RelationRestrict
)

// Политики удаления для каждой связи системы
const (
	// Категория владеет товарами: удаление категории удаляет их
	CategoryProductsPolicy = RelationCascadeDelete
	// Поставщик не владеет товарами: удаление поставщика отвязывает их
	SupplierProductsPolicy = RelationUnlink
	// Заказ владеет позициями: удаление заказа удаляет их
	OrderItemsPolicy = RelationCascadeDelete
	// Позиции заказов ссылаются на товар: товар с историей продаж не удаляется
	ProductOrderItemsPolicy = RelationRestrict
)

// Category представляет категорию товаров
// Имя уникально без учёта регистра
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description,omitempty" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// Supplier представляет поставщика товаров
// Email опционален, но уникален без учёта регистра, если задан
type Supplier struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(200);uniqueIndex"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// Product представляет товар в каталоге
// Цена хранится как decimal(10,2); SKU опционален, формат AAA999
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Description string          `json:"description,omitempty" gorm:"type:varchar(1000)"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;check:stock >= 0"`
	SKU         *string         `json:"sku,omitempty" gorm:"column:sku;type:varchar(6);uniqueIndex"`
	CategoryID  uuid.UUID       `json:"category_id" gorm:"type:uuid;not null"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	SupplierID  *uuid.UUID      `json:"supplier_id,omitempty" gorm:"type:uuid"`
	Supplier    *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы для GORM
func (Product) TableName() string {
	return "products"
}

// OrderStatus представляет статус заказа
// Статус движется только вперёд: PENDING -> CONFIRMED -> SHIPPED -> DELIVERED
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"   // Ожидает подтверждения
	OrderStatusConfirmed OrderStatus = "CONFIRMED" // Подтвержден
	OrderStatusShipped   OrderStatus = "SHIPPED"   // Отправлен
	OrderStatusDelivered OrderStatus = "DELIVERED" // Доставлен, финальный статус
)

// ParseOrderStatus преобразует строку в OrderStatus
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered:
		return OrderStatus(s), true
	}
	return "", false
}

// Order представляет заказ покупателя
// TotalAmount вычисляется из позиций при создании и хранится для чтения
type Order struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderNumber   string          `json:"order_number" gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerName  string          `json:"customer_name" gorm:"type:varchar(200);not null"`
	CustomerEmail *string         `json:"customer_email,omitempty" gorm:"type:varchar(200)"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20);not null"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	OrderDate     time.Time       `json:"order_date" gorm:"not null"`
	Items         []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName указывает имя таблицы для GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem представляет позицию заказа
// Позиция ссылается на заказ только по OrderID - обратного указателя нет,
// цикл Order <-> OrderItem в сериализацию не попадает.
// UnitPrice фиксируется в момент оформления и больше не меняется,
// даже если цена товара изменится.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:uuid;not null"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
}

// TableName указывает имя таблицы для GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// CategoryCount содержит количество товаров в категории
type CategoryCount struct {
	CategoryName string `json:"category_name"`
	ProductCount int64  `json:"product_count"`
}

// CategoryAvgPrice содержит среднюю цену товаров категории
type CategoryAvgPrice struct {
	CategoryName string          `json:"category_name"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// CategoryStats объединяет количество и среднюю цену товаров категории
type CategoryStats struct {
	CategoryName string          `json:"category_name"`
	ProductCount int64           `json:"product_count"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// StatusCount содержит количество заказов в статусе
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// ProductOrderCount содержит суммарное заказанное количество товара
type ProductOrderCount struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}
