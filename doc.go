/*
Package imagehash computes compact perceptual hashes of images so that
visually similar images, including ones related by resizing, recoloring,
rotation or cropping, can be recognized as near duplicates by comparing
hashes instead of pixels.

The single-grid algorithms AverageHash, DHash, DHashVertical, PHash,
PHashSimple, WHash and ColorHash each reduce an image to a fixed-size Hash,
a bit grid compared via Hamming distance. CropResistantHash partitions an
image into bright and dark segments and hashes each one separately,
producing a MultiHash whose matching survives heavy cropping. Segmentation
and matching follow the paper "Efficient Cropping-Resistant Robust Image
Hashing" (DOI 10.1109/ARES.2014.85).
*/
package imagehash
