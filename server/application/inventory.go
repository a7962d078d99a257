package application

type ItemType string

const (
	ItemHand    ItemType = "Hand"
	ItemWeapon  ItemType = "Weapon"
	ItemHealth  ItemType = "Health"
	ItemShield  ItemType = "Shield"
	ItemGrenade ItemType = "Grenade"
)

const (
	InventorySlots = 6
	HandSlot       = 0
)

// Item はインベントリの1スロットの中身です。
type Item struct {
	Type       ItemType `json:"itemType"`
	Name       string   `json:"itemName"`
	WeaponName string   `json:"weaponName,omitempty"`
	Amount     int      `json:"amount,omitempty"`
}

func (i Item) consumable() bool {
	return i.Type == ItemHealth || i.Type == ItemShield || i.Type == ItemGrenade
}

func HandItem() Item { return Item{Type: ItemHand, Name: WeaponHand} }
func PistolItem() Item { return weaponItem(WeaponPistol) }
func RifleItem() Item { return weaponItem(WeaponRifle) }
func ShotgunItem() Item { return weaponItem(WeaponShotgun) }
func HealthPack(n int) Item { return Item{Type: ItemHealth, Name: "Health Pack", Amount: n} }
func ShieldPack(n int) Item { return Item{Type: ItemShield, Name: "Shield Pack", Amount: n} }
func GrenadeItem(n int) Item { return Item{Type: ItemGrenade, Name: "Grenade", Amount: n} }

func weaponItem(name string) Item {
	return Item{Type: ItemWeapon, Name: name, WeaponName: name}
}

// Inventory は6スロット固定の装備欄です。スロット0は常にHandで、追加も削除もできません。
type Inventory struct {
	slots   [InventorySlots]*Item
	current int
}

func NewInventory() *Inventory {
	inv := &Inventory{}
	hand := HandItem()
	inv.slots[HandSlot] = &hand
	return inv
}

// NewLoadout は初期装備を持ったインベントリを返します。
func NewLoadout() *Inventory {
	inv := NewInventory()
	for i, item := range []Item{PistolItem(), RifleItem(), HealthPack(1), ShieldPack(1), GrenadeItem(3)} {
		_ = inv.AddItem(i+1, item)
	}
	return inv
}

func checkSlot(i int) error {
	if i < 0 || i >= InventorySlots {
		return ErrSlotOutOfRange
	}
	return nil
}

func (inv *Inventory) AddItem(i int, item Item) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	if i == HandSlot {
		return ErrSlotReserved
	}
	inv.slots[i] = &item
	return nil
}

func (inv *Inventory) RemoveItem(i int) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	if i == HandSlot {
		return ErrSlotReserved
	}
	inv.slots[i] = nil
	if inv.current == i {
		inv.current = HandSlot
	}
	return nil
}

func (inv *Inventory) SwitchToSlot(i int) error {
	if err := checkSlot(i); err != nil {
		return err
	}
	if inv.slots[i] == nil {
		return ErrSlotEmpty
	}
	inv.current = i
	return nil
}

func (inv *Inventory) CurrentSlot() int { return inv.current }

// CurrentItem は選択中のアイテムを返します。空ならfalseです。
func (inv *Inventory) CurrentItem() (Item, bool) {
	return inv.ItemAt(inv.current)
}

func (inv *Inventory) ItemAt(i int) (Item, bool) {
	if checkSlot(i) != nil || inv.slots[i] == nil {
		return Item{}, false
	}
	return *inv.slots[i], true
}

// FindSlot は指定種別で残量のある最初のスロットを返します。
func (inv *Inventory) FindSlot(t ItemType) (int, bool) {
	for i, item := range inv.slots {
		if item != nil && item.Type == t && (!item.consumable() || item.Amount > 0) {
			return i, true
		}
	}
	return 0, false
}

// HasWeapon は指定の武器がどこかのスロットにあるかを返します。
func (inv *Inventory) HasWeapon(name string) bool {
	for _, item := range inv.slots {
		if item != nil && item.Type == ItemWeapon && item.WeaponName == name {
			return true
		}
	}
	return false
}

// UseConsumable は消費アイテムを1つ減らし、使用前のアイテムを返します。
// 残量が0になったスロットは空になり、それが選択中ならHandに戻ります。
func (inv *Inventory) UseConsumable(i int) (Item, error) {
	if err := checkSlot(i); err != nil {
		return Item{}, err
	}
	item := inv.slots[i]
	if item == nil {
		return Item{}, ErrSlotEmpty
	}
	if !item.consumable() {
		return Item{}, ErrNotConsumable
	}
	used := *item
	if item.Amount > 1 {
		item.Amount--
	} else {
		inv.slots[i] = nil
		if inv.current == i {
			inv.current = HandSlot
		}
	}
	return used, nil
}

// Slots は全スロットのコピーを返します。空スロットはnilです。
func (inv *Inventory) Slots() []*Item {
	out := make([]*Item, InventorySlots)
	for i, item := range inv.slots {
		if item != nil {
			c := *item
			out[i] = &c
		}
	}
	return out
}
