// Package sampledata bundles a small reference catalog so scanning works on
// a cold start with no network and no cache.
package sampledata

import "scanpay/client/model"

// Products is the bundled demo catalog
var Products = []model.Product{
	{
		SKU:            "HM-87492",
		Name:           "Striped Cotton T-Shirt",
		Price:          899,
		ImageURL:       "https://images.unsplash.com/photo-1523381210434-271e8be1f52b?auto=format&fit=crop&q=80&w=400",
		Shop:           "H&M",
		Variants:       []string{"S", "M", "L", "XL"},
		ArticleNo:      "87492",
		StockAvailable: true,
	},
	{
		SKU:            "ZR-33821",
		Name:           "Slim Fit Chinos",
		Price:          1600,
		ImageURL:       "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?auto=format&fit=crop&q=80&w=400",
		Shop:           "Zara",
		Variants:       []string{"30", "32", "34", "36"},
		ArticleNo:      "33821",
		StockAvailable: true,
	},
	{
		SKU:            "LV-55402",
		Name:           "Denim Jacket",
		Price:          2999,
		ImageURL:       "https://images.unsplash.com/photo-1576871337632-b9aef4c17ab5?auto=format&fit=crop&q=80&w=400",
		Shop:           "Levis",
		Variants:       []string{"S", "M", "L"},
		ArticleNo:      "55402",
		StockAvailable: true,
	},
	{
		SKU:            "UQ-11293",
		Name:           "Basic White Tee",
		Price:          499,
		ImageURL:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?auto=format&fit=crop&q=80&w=400",
		Shop:           "Uniqlo",
		Variants:       []string{"XS", "S", "M", "L", "XL"},
		ArticleNo:      "11293",
		StockAvailable: true,
	},
	{
		SKU:            "NK-99201",
		Name:           "Running Shoes",
		Price:          3499,
		ImageURL:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&q=80&w=400",
		Shop:           "Nike",
		Variants:       []string{"7", "8", "9", "10", "11"},
		ArticleNo:      "99201",
		StockAvailable: true,
	},
	{
		SKU:            "SN-123456",
		Name:           "Noise Cancelling Headphones",
		Price:          5999,
		ImageURL:       "https://images.unsplash.com/photo-1612858250380-3206795f8a76?auto=format&fit=crop&q=80&w=400",
		Shop:           "Sony",
		Variants:       []string{"One Size"},
		ArticleNo:      "123456",
		StockAvailable: true,
	},
}
