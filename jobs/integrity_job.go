package jobs

import (
	"log"

	"github.com/voyago/travel_commerce/database"
)

// PruneOrphanMemberships deletes association rows whose product or amenity
// side no longer exists in the catalog. Membership rows are the single
// source of truth for bundle contents, so stale references must never
// survive a catalog cleanup.
func PruneOrphanMemberships() {
	log.Println("Running job: PruneOrphanMemberships...")

	result := database.DB.Exec(
		"DELETE FROM bundle_product WHERE product_id NOT IN (SELECT id FROM products)")
	if result.Error != nil {
		log.Printf("Error pruning orphan bundle memberships: %v", result.Error)
		return
	}
	pruned := result.RowsAffected

	result = database.DB.Exec(
		"DELETE FROM room_type_amenity WHERE room_amenity_id NOT IN (SELECT id FROM room_amenities)")
	if result.Error != nil {
		log.Printf("Error pruning orphan amenity links: %v", result.Error)
		return
	}
	pruned += result.RowsAffected

	if pruned == 0 {
		log.Println("No orphaned membership rows found.")
		return
	}
	log.Printf("Pruned %d orphaned membership row(s).", pruned)
}
