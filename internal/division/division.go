// Package division cung cấp dữ liệu đơn vị hành chính Việt Nam
// (tỉnh/thành → quận/huyện → phường/xã) nhúng sẵn trong binary.
package division

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"
)

//go:embed divisions.json
var divisionsJSON []byte

type Ward struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type District struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Wards []Ward `json:"wards"`
}

type Province struct {
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Districts []District `json:"districts"`
}

var (
	loadOnce  sync.Once
	provinces []Province

	provinceIndex map[string]*Province
	districtIndex map[string]*District
	wardIndex     map[string]*Ward
)

func load() {
	loadOnce.Do(func() {
		if err := json.Unmarshal(divisionsJSON, &provinces); err != nil {
			panic("division: dữ liệu divisions.json không hợp lệ: " + err.Error())
		}

		provinceIndex = make(map[string]*Province, len(provinces))
		districtIndex = make(map[string]*District)
		wardIndex = make(map[string]*Ward)

		for i := range provinces {
			p := &provinces[i]
			provinceIndex[p.Code] = p
			for j := range p.Districts {
				d := &p.Districts[j]
				districtIndex[p.Code+":"+d.Code] = d
				for k := range d.Wards {
					w := &d.Wards[k]
					wardIndex[p.Code+":"+d.Code+":"+w.Code] = w
				}
			}
		}
	})
}

// All trả về toàn bộ cây đơn vị hành chính.
func All() []Province {
	load()
	return provinces
}

// Valid kiểm tra bộ ba mã tỉnh/quận/phường không rỗng. Dữ liệu nhúng chỉ
// phục vụ tra tên hiển thị và chưa phủ đủ 63 tỉnh thành, nên mã nằm ngoài
// dữ liệu vẫn được chấp nhận.
func Valid(provinceCode, districtCode, wardCode string) bool {
	return strings.TrimSpace(provinceCode) != "" &&
		strings.TrimSpace(districtCode) != "" &&
		strings.TrimSpace(wardCode) != ""
}

// DisplayNames trả về tên hiển thị của bộ ba mã; mã nào không có trong
// dữ liệu nhúng thì trả lại chính mã đó.
func DisplayNames(provinceCode, districtCode, wardCode string) (province, district, ward string) {
	load()
	province, district, ward = provinceCode, districtCode, wardCode
	if p, ok := provinceIndex[provinceCode]; ok {
		province = p.Name
	}
	if d, ok := districtIndex[provinceCode+":"+districtCode]; ok {
		district = d.Name
	}
	if w, ok := wardIndex[provinceCode+":"+districtCode+":"+wardCode]; ok {
		ward = w.Name
	}
	return province, district, ward
}
