package http

// SearchItems godoc
// @Summary Search inventory items
// @Description Search and filter items by text, category subtree, attributes, tags, codes and stock state, with deterministic ordering and pagination
// @Tags Items
// @Accept json
// @Produce json
// @Param request body object{query=string,category_ids=array,include_descendants=bool,attributes=object,tags=array,business_type=string,low_stock_only=bool,out_of_stock_only=bool,sort_by=string,sort_order=string,limit=int,offset=int} true "Filter spec"
// @Success 200 {object} object{success=bool,data=object{items=array,total_count=int,page_info=object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/items/search [post]
func (h *ItemHandler) SearchItemsDoc() {}

// CreateItem godoc
// @Summary Create inventory item
// @Description Create a new item with SKU/barcode validation, attribute schema checks and an opening stock movement (Admin only)
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{sku=string,barcode=string,name=string,category_id=int,cost_price=number,sale_price=number,stock_quantity=int,min_stock_level=int,unit_of_measure=string,attributes=object,tags=array} true "Item data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/items [post]
func (h *ItemHandler) CreateItemDoc() {}

// GetItem godoc
// @Summary Get item by ID
// @Tags Items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id} [get]
func (h *ItemHandler) GetItemDoc() {}

// UpdateItem godoc
// @Summary Update inventory item
// @Description Partially update an item; omitted fields are left unchanged (Admin only)
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object true "Fields to update"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id} [patch]
func (h *ItemHandler) UpdateItemDoc() {}

// AdjustStock godoc
// @Summary Adjust item stock
// @Description Record a stock movement and update the item balance atomically; adjustments that would drive stock negative are rejected
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{quantity_delta=int,type=string,unit_cost=number,reference_type=string,reference_id=string} true "Movement data"
// @Success 200 {object} object{success=bool,message=string,data=object{movement=object,new_quantity=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/items/{id}/adjust [post]
func (h *ItemHandler) AdjustStockDoc() {}

// DeactivateItem godoc
// @Summary Deactivate item
// @Description Soft-deactivate an item; history and movements are preserved (Admin only)
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/items/{id} [delete]
func (h *ItemHandler) DeactivateItemDoc() {}

// ValidateSKU godoc
// @Summary Validate SKU
// @Description Check SKU format and uniqueness among active items
// @Tags Items
// @Accept json
// @Produce json
// @Param request body object{sku=string} true "SKU"
// @Success 200 {object} object{success=bool,data=object{valid=bool,conflicts=array}}
// @Router /api/items/validate-sku [post]
func (h *ItemHandler) ValidateSKUDoc() {}

// ValidateBarcode godoc
// @Summary Validate barcode
// @Description Check barcode format and uniqueness among active items
// @Tags Items
// @Accept json
// @Produce json
// @Param request body object{barcode=string} true "Barcode"
// @Success 200 {object} object{success=bool,data=object{valid=bool,conflicts=array}}
// @Router /api/items/validate-barcode [post]
func (h *ItemHandler) ValidateBarcodeDoc() {}

// ConvertUnits godoc
// @Summary Convert item units
// @Description Convert a quantity between an item's configured units of measure
// @Tags Items
// @Accept json
// @Produce json
// @Param request body object{item_id=int,from_unit=string,to_unit=string,quantity=number} true "Conversion request"
// @Success 200 {object} object{success=bool,data=object{converted_quantity=number,from_unit=string,to_unit=string}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/convert-units [post]
func (h *ItemHandler) ConvertUnitsDoc() {}

// ReconcileItem godoc
// @Summary Reconcile item stock against the movement ledger
// @Description Compare the cached stock quantity with the sum of ledger movements and report any drift
// @Tags Items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=object{item_id=int,stock_quantity=int,ledger_balance=int,drift=int,consistent=bool}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id}/reconcile [get]
func (h *ItemHandler) ReconcileItemDoc() {}
