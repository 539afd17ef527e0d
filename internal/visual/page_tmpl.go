package visual

const tmplMapPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Spec.Title}}</title>
<script src="https://d3js.org/d3.v5.min.js"></script>
<script src="https://unpkg.com/topojson@3"></script>
<style>
body { background-color: white; }
.title { font-size: 30px; font-family: "Roboto", sans-serif; text-align: center; }
.container { display: flex; flex-direction: row; justify-content: center; align-items: center; }
.directions { font-size: 18px; font-family: "Roboto", sans-serif; padding-left: 20px; }
.error { font-family: "Roboto", sans-serif; color: #b00020; }
#map { position: relative; }
#backgroundRectangle { width: 100%; height: 100%; fill: #f5f5f5; }
.projectionOutline { fill: #2f434a; stroke: #4e5f66; }
.tooltip {
    position: absolute;
    font-size: 12px;
    width: auto;
    height: auto;
    pointer-events: none;
    background-color: white;
    padding: 3px;
    opacity: 0;
}
</style>
</head>
<body>
<h1 class="title">{{.Spec.Title}}</h1>
<div class="container">
<div id="map"></div>
<p class="directions">{{.Spec.Directions}}</p>
</div>
<script>
(function () {
    var spec = {{.Spec}};
    var width = spec.canvas.width;
    var height = spec.canvas.height;

    fetch(spec.atlas.url)
        .then(function (res) {
            if (!res.ok) {
                throw new Error("atlas request failed with status " + res.status);
            }
            return res.json();
        })
        .then(draw)
        .catch(function (err) {
            d3.select("#map").append("p")
                .attr("class", "error")
                .text("Could not load the world map: " + err.message);
        });

    function draw(mapData) {
        var zoom = d3.zoom()
            .scaleExtent([spec.zoom.minScale, spec.zoom.maxScale])
            .translateExtent([[0, 0], [width, height]])
            .extent([[0, 0], [width, height]])
            .on("zoom", function () {
                d3.select("#map-group").attr("transform", d3.event.transform);
            });

        var brush = d3.brush()
            .extent([[0, 0], [width, height]])
            .on("end", brushEnded);

        var svg = d3.select("#map").append("svg")
            .attr("width", width)
            .attr("height", height);
        svg.append("rect").attr("id", "backgroundRectangle");

        var group = svg.append("g")
            .attr("id", "map-group")
            .call(brush);

        var projection = d3.geoMercator()
            .translate([spec.projection.translate.x, spec.projection.translate.y])
            .scale(spec.projection.scale);
        var path = d3.geoPath().projection(projection);

        group.append("g").selectAll("path")
            .data(topojson.feature(mapData, mapData.objects[spec.atlas.object]).features)
            .enter()
          .append("path")
            .attr("d", path)
            .attr("class", "projectionOutline");

        var rect = document.getElementById("map").getBoundingClientRect();
        var offset = { left: rect.left + window.pageXOffset, top: rect.top + window.pageYOffset };

        var tooltip = d3.select("#map").append("div").attr("class", "tooltip");

        function mouseover(d) {
            tooltip.html(d.tooltip)
                .style("left", (d3.event.pageX + spec.tooltip.offset.x - offset.left) + "px")
                .style("top", (d3.event.pageY + spec.tooltip.offset.y - offset.top) + "px")
              .transition()
                .duration(spec.tooltip.fadeInMs)
                .style("opacity", spec.tooltip.opacity);
            d3.select(this)
                .style("stroke", spec.hover.stroke)
                .style("opacity", spec.hover.opacity);
        }

        function mouseout() {
            tooltip.transition()
                .duration(spec.tooltip.fadeOutMs)
                .style("opacity", 0);
            d3.select(this)
                .style("stroke", "none")
                .style("opacity", spec.markerStyle.restingOpacity);
        }

        var circles = group.selectAll("circle")
            .data(spec.markers)
            .enter()
          .append("circle")
            .attr("r", 0)
            .attr("cx", function (d) { return projection([d.long, d.lat])[0]; })
            .attr("cy", function (d) { return projection([d.long, d.lat])[1]; })
            .style("fill", function (d) { return d.fill; })
            .style("opacity", spec.markerStyle.restingOpacity)
            .on("mouseover", mouseover)
            .on("mouseout", mouseout);

        circles.transition()
            .duration(spec.markerStyle.introDurationMs)
            .ease(d3.easeQuadOut)
            .attr("r", function (d) { return d.radius; });

        function brushEnded() {
            // Clearing the brush below fires another end event without a source event.
            if (!d3.event.sourceEvent) {
                return;
            }
            var sel = d3.event.selection;
            if (sel && sel[1][0] - sel[0][0] > 0 && sel[1][1] - sel[0][1] > 0) {
                var k = Math.min(Math.max(width / (sel[1][0] - sel[0][0]), spec.zoom.minScale), spec.zoom.maxScale);
                group.call(brush.move, null);
                group.transition().duration(spec.zoom.transitionMs)
                    .call(zoom.transform, d3.zoomIdentity.scale(k).translate(-sel[0][0], -sel[0][1]));
                circles.transition().delay(spec.zoom.rescaleDelayMs).duration(spec.zoom.rescaleDurationMs)
                    .attr("r", function (d) { return 2 * d.radius / k; })
                    .attr("stroke-width", 1 / k);
                return;
            }
            group.transition().duration(spec.zoom.transitionMs)
                .call(zoom.transform, d3.zoomIdentity);
            circles.transition().delay(spec.zoom.rescaleDelayMs).duration(spec.zoom.rescaleDurationMs)
                .attr("r", function (d) { return d.radius; })
                .attr("stroke-width", 1);
        }
    }
})();
</script>
</body>
</html>
`
