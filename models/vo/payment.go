package vo

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/Xushengqwer/codefix_portal/models/enums"
)

// OrderResult 创建/查询订单接口的 data
type OrderResult struct {
	URLQRCode   string            `json:"url_qrcode"`
	OrderID     string            `json:"orderId"`
	RedirectURL string            `json:"redirectUrl,omitempty"`
	Status      enums.OrderStatus `json:"status"`
}

// Package 前端使用的套餐信息
type Package struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Des           string  `json:"des"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Days          int     `json:"days"`
	ExtraReward   int     `json:"extraReward"`
}

// OrderInfo 当前订单信息
type OrderInfo struct {
	PkgInfo Package `json:"pkgInfo"`
}

// PayConfig 支付开关配置接口的 data，1 表示启用；字段缺失时保留本地值。
type PayConfig struct {
	PayWechatStatus *int `json:"payWechatStatus"`
	PayAliStatus    *int `json:"payAliStatus"`
}

// PackageRow 套餐列表接口返回的原始行，价格为字符串、名称可能是数字
type PackageRow struct {
	ID            int        `json:"id"`
	Name          FlexString `json:"name"`
	Des           string     `json:"des"`
	Price         string     `json:"price"`
	OriginalPrice string     `json:"originalPrice"`
	Days          int        `json:"days"`
	Status        int        `json:"status"`
	CoverImg      *string    `json:"coverImg"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
	DeletedAt     *string    `json:"deletedAt"`
}

// ToPackage 转换为前端使用的套餐结构，价格无法解析时记为 0。
func (r PackageRow) ToPackage() Package {
	price, _ := strconv.ParseFloat(r.Price, 64)
	original, _ := strconv.ParseFloat(r.OriginalPrice, 64)
	return Package{
		ID:            r.ID,
		Name:          string(r.Name),
		Des:           r.Des,
		Price:         price,
		OriginalPrice: original,
		Days:          r.Days,
	}
}

// PackageList 套餐列表接口的 data
type PackageList struct {
	Rows  []PackageRow `json:"rows"`
	Count int          `json:"count"`
}

// FlexString 兼容后端既可能返回字符串也可能返回数字的字段。
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}
