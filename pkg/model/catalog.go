package model

import (
	"fmt"
	"strings"
)

type RoomTypeInfo struct {
	Type     RoomType `json:"type"`
	Price    int64    `json:"price_per_night"`
	Count    int      `json:"count"`
	Features []string `json:"features"`
}

// RoomCatalog lists the room types in ascending room-number order: the first
// Standard room is 101 and each type continues where the previous one ended.
var RoomCatalog = []RoomTypeInfo{
	{Type: RoomStandard, Price: 2500, Count: 15, Features: []string{"Queen bed", "Free Wi-Fi", "Air conditioning", "City view"}},
	{Type: RoomDeluxe, Price: 4000, Count: 10, Features: []string{"King bed", "Free Wi-Fi", "Mini bar", "Ocean view"}},
	{Type: RoomSuite, Price: 7000, Count: 5, Features: []string{"Living area", "King bed", "Jacuzzi", "Panoramic view", "Butler service"}},
}

const FirstRoomNumber = 101

func LookupRoomType(t RoomType) (RoomTypeInfo, bool) {
	for _, info := range RoomCatalog {
		if info.Type == t {
			return info, true
		}
	}
	return RoomTypeInfo{}, false
}

type MenuItem struct {
	Name        string       `json:"name"`
	Category    MenuCategory `json:"category"`
	Price       int64        `json:"price"`
	Description string       `json:"description,omitempty"`
}

var Menu = []MenuItem{
	{Name: "Waffle", Category: CategoryFood, Price: 150, Description: "Golden waffle with syrup"},
	{Name: "Burger", Category: CategoryFood, Price: 200, Description: "Beef patty, cheese and fries on the side"},
	{Name: "Fries", Category: CategoryFood, Price: 100, Description: "Crispy potato fries"},
	{Name: "Pasta", Category: CategoryFood, Price: 250, Description: "Creamy carbonara"},
	{Name: "Steak", Category: CategoryFood, Price: 500, Description: "Grilled ribeye with vegetables"},
	{Name: "Salad", Category: CategoryFood, Price: 180, Description: "Garden greens with vinaigrette"},
	{Name: "Pizza", Category: CategoryFood, Price: 350, Description: "Wood-fired margherita"},

	{Name: "Tropical Yakult Splash", Category: CategoryDrink, Price: 120},
	{Name: "Energy Bear Spark", Category: CategoryDrink, Price: 130},
	{Name: "Bear Fizz Delight", Category: CategoryDrink, Price: 125},
	{Name: "Classic Sparkle", Category: CategoryDrink, Price: 110},
	{Name: "Sweet Chill", Category: CategoryDrink, Price: 115},
	{Name: "Grape Fizz", Category: CategoryDrink, Price: 120},
	{Name: "Mojito", Category: CategoryDrink, Price: 150},
	{Name: "Margarita", Category: CategoryDrink, Price: 180},
}

// LookupMenuItem matches names case-insensitively within one category.
func LookupMenuItem(category MenuCategory, name string) (MenuItem, bool) {
	name = strings.TrimSpace(name)
	for _, item := range Menu {
		if item.Category == category && strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return MenuItem{}, false
}

func MenuFor(category MenuCategory) []MenuItem {
	items := make([]MenuItem, 0, len(Menu))
	for _, item := range Menu {
		if category == "" || item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

var PaymentMethods = []string{"Cash", "Credit Card", "Debit Card", "GCash", "PayMaya"}

var SeatingOptions = []string{"Indoor", "Outdoor", "Window", "Private Room"}

var HousekeepingRequestTypes = []string{"Cleaning", "Towels", "Toiletries", "Bedding", "Maintenance", "Turndown"}

const (
	DepartmentManager        = "Manager"
	DepartmentFrontOffice    = "Front Office"
	DepartmentKitchen        = "Kitchen"
	DepartmentBar            = "Bar"
	DepartmentHousekeeping   = "Housekeeping"
	DepartmentBilling        = "Billing"
	DepartmentCustomerGuest  = "Customer Guest"
	DepartmentRoomFacilities = "Room Facilities"
)

var Departments = []string{
	DepartmentManager,
	DepartmentFrontOffice,
	DepartmentKitchen,
	DepartmentBar,
	DepartmentHousekeeping,
	DepartmentBilling,
	DepartmentCustomerGuest,
	DepartmentRoomFacilities,
}

const (
	FirstSeatingHour   = 10
	LastSeatingHour    = 22
	SeatingIntervalMin = 30
)

// TimeSlots returns the restaurant seating times from 10:00 to 22:00 inclusive.
func TimeSlots() []string {
	slots := make([]string, 0, (LastSeatingHour-FirstSeatingHour)*2+1)
	for minutes := FirstSeatingHour * 60; minutes <= LastSeatingHour*60; minutes += SeatingIntervalMin {
		slots = append(slots, fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
	}
	return slots
}

// Contains is a case-sensitive membership test over one of the catalog lists.
func Contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
