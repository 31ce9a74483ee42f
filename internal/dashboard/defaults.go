package dashboard

import "github.com/flamedough/api/internal/enum"

func option(id, name string, delta int64, isDefault bool) ModifierOption {
	return ModifierOption{ID: id, Name: name, PriceDelta: delta, IsDefault: isDefault, StockStatus: enum.StockAvailable}
}

func plainItem(id, name, description string, price int64, order int, tags ...string) MenuItem {
	if tags == nil {
		tags = []string{}
	}
	return MenuItem{
		ID:             id,
		Name:           name,
		Description:    description,
		BasePrice:      price,
		TaxRate:        DefaultTaxRate,
		Tags:           tags,
		StockStatus:    enum.StockAvailable,
		DisplayOrder:   order,
		ModifierGroups: []ModifierGroup{},
	}
}

func portionGroup(id string, prefix string, half, double int64) ModifierGroup {
	return ModifierGroup{
		ID: id, Name: "Porsiyon", Type: enum.GroupSingle, Required: true,
		MinSelections: 1, MaxSelections: 1,
		Options: []ModifierOption{
			option(prefix+"tek", "Tek", 0, true),
			option(prefix+"birbucuk", "Bir Buçuk", half, false),
			option(prefix+"ikili", "İkili", double, false),
		},
	}
}

// DefaultMenu is written on first launch when no menu exists yet.
func DefaultMenu() Menu {
	adana := plainItem("item-adana", "Adana Kebap",
		"Acılı kıyma kebabı, közlenmiş biber ve domates ile servis edilir", 180, 0, "Acılı")
	adana.ModifierGroups = []ModifierGroup{
		portionGroup("mg-porsiyon", "opt-", 60, 120),
		{
			ID: "mg-ekstralar", Name: "Ekstralar", Type: enum.GroupMulti,
			MinSelections: 0, MaxSelections: 4, DisplayOrder: 1,
			Options: []ModifierOption{
				option("opt-lavas", "Ekstra Lavaş", 10, false),
				option("opt-yogurt", "Yoğurt", 15, false),
				option("opt-kozpatlican", "Közlenmiş Patlıcan", 20, false),
				option("opt-acisos", "Acı Sos", 5, false),
			},
		},
		{
			ID: "mg-cikar", Name: "Malzeme Çıkar", Type: enum.GroupRemoval,
			MinSelections: 0, MaxSelections: 10, DisplayOrder: 2,
			Options: []ModifierOption{
				option("opt-r-biber", "Közlenmiş Biber", 0, false),
				option("opt-r-domates", "Domates", 0, false),
				option("opt-r-sogan", "Soğan", 0, false),
			},
		},
	}

	urfa := plainItem("item-urfa", "Urfa Kebap", "Acısız kıyma kebabı, yanında pilav ve salata", 170, 1)
	urfa.ModifierGroups = []ModifierGroup{portionGroup("mg-urfa-porsiyon", "opt-u-", 50, 100)}

	kusbasi := plainItem("item-kusbasi", "Kuşbaşı Kebap", "Kuşbaşı et parçaları, sebzeler ile fırında pişirilir", 220, 2)
	kusbasi.StockStatus = enum.StockSoldOut

	return Menu{
		ID:     "menu-1",
		Name:   "Ana Menü",
		Status: enum.MenuStatusLive,
		Categories: []Category{
			{
				ID: "cat-kebaplar", Name: "Kebaplar",
				Description:  "Özenle hazırlanan geleneksel kebaplarimız",
				DisplayOrder: 0,
				Items:        []MenuItem{adana, urfa, kusbasi},
			},
			{
				ID: "cat-pideler", Name: "Pideler",
				Description:  "Taş fırında pişen özel pidelerimiz",
				DisplayOrder: 1,
				Items: []MenuItem{
					plainItem("item-kiymali", "Kıymalı Pide", "Taze kıyma, domates, biber ve baharatlar ile", 140, 0),
					plainItem("item-kasarli", "Kaşarlı Pide", "Bol kaşar peyniri ile hazırlanan klasik pide", 120, 1),
					plainItem("item-karisik", "Karışık Pide", "Kıyma, kaşar, sucuk ve yumurta ile", 160, 2),
				},
			},
			{
				ID: "cat-icecekler", Name: "İçecekler",
				Description:  "Soğuk ve sıcak içeceklerimiz",
				DisplayOrder: 2,
				Items: []MenuItem{
					plainItem("item-ayran", "Ayran", "Geleneksel yoğurt içeceği", 20, 0),
					plainItem("item-kola", "Kola", "Soğuk 330ml kutu", 25, 1),
					plainItem("item-salgam", "Şalgam Suyu", "Adana usulü acılı şalgam", 15, 2, "Acılı"),
				},
			},
		},
	}
}

func hours(day, key, open, close string) WorkingHours {
	return WorkingHours{Day: day, DayKey: key, IsOpen: true, OpenTime: open, CloseTime: close}
}

// DefaultSettings is written on first launch and restored by Reset.
func DefaultSettings() Settings {
	return Settings{
		Profile: Profile{
			Name:    "Ahmet'in Kebap Evi",
			Slug:    "ahmet-kebap-evi",
			Tagline: "Geleneksel lezzetler, modern sunum",
			Address: "Bağdat Cad. No:45, Kadıköy, İstanbul",
			Phone:   "+90 216 345 67 89",
			Email:   "info@ahmetkebap.com",
		},
		WorkingHours: []WorkingHours{
			hours("Pazartesi", "mon", "10:00", "22:00"),
			hours("Salı", "tue", "10:00", "22:00"),
			hours("Çarşamba", "wed", "10:00", "22:00"),
			hours("Perşembe", "thu", "10:00", "22:00"),
			hours("Cuma", "fri", "10:00", "23:00"),
			hours("Cumartesi", "sat", "11:00", "23:00"),
			hours("Pazar", "sun", "11:00", "22:00"),
		},
		Delivery: Delivery{
			DeliveryEnabled:       true,
			PickupEnabled:         true,
			DeliveryFee:           15,
			FreeDeliveryThreshold: 200,
			DeliveryRadius:        5,
			MinOrderAmount:        80,
			AvgPrepTime:           30,
		},
		OrderAcceptMode:   enum.OrderAcceptAuto,
		NotificationPhone: "+90 532 123 45 67",
	}
}
