package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInnerCity(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"", false},
		{"12 Nguyễn Trãi, Hà Nội", true},
		{"12 Nguyen Trai, HA NOI", true},
		{"District 1, Ho Chi Minh City", true},
		{"Quận 3, TP.HCM", true},
		{"45 Bach Dang, Da Nang", true},
		{"Hai Chau, Đà Nẵng", true},
		{"Sai Gon Centre, Le Loi", true},
		{"Thanh pho Can Tho", false},
		{"Hai Phong", false},
		{"Hue", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InnerCity(tt.address), "address %q", tt.address)
	}
}
